package analysis

// minFFTSize is the smallest transform used by Convolver.
const minFFTSize = 256
