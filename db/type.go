package db

type BatchStatus int

const (
	Retrieving BatchStatus = 0
	Retrieved  BatchStatus = 1 // all blobs of the batch have been retrieved, the lookup hit the end of batch
	Aborted    BatchStatus = 2 // the lookup ended on an error other than the blob not being found
)

func (s BatchStatus) String() string {
	switch s {
	case Retrieving:
		return "retrieving"
	case Retrieved:
		return "retrieved"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}
