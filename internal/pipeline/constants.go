package pipeline

const bufferGrowthFactor = 2
