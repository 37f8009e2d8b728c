package fastscan

// Export internal symbols for black-box tests in fastscan_test.
var (
	ScanRaw       = scanRaw
	PartitionWork = partitionWork
	ScanPartition = scanPartition
)

type WorkerPartition = workerPartition
