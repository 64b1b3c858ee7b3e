package domain

// ConsumerID identifies one of the two downstream consumers on the client.
type ConsumerID int

const (
	ConsumerStdout ConsumerID = iota
	ConsumerStderr
)

func (c ConsumerID) String() string {
	switch c {
	case ConsumerStdout:
		return "stdout"
	case ConsumerStderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// Job is one record read from the backing file and delivered to the client.
// Tag is the raw destination byte exactly as stored in the file.
type Job struct {
	Tag     byte
	Payload []byte
}

// FeedState is the state of the server's job source
type FeedState string

const (
	FeedStateOpen      FeedState = "OPEN"
	FeedStateExhausted FeedState = "EXHAUSTED"
	FeedStateClosed    FeedState = "CLOSED"
)

// FeedStats is a snapshot of the job feed counters
type FeedStats struct {
	State         FeedState `json:"state"`
	RecordsServed int       `json:"records_served"`
	Bursts        int       `json:"bursts"`
	EndOfDataSent int       `json:"end_of_data_sent"`
}

// ServerStatus is what the server reports on its status endpoint
type ServerStatus struct {
	Session   string    `json:"session"`
	File      string    `json:"file"`
	Address   string    `json:"address"`
	Connected bool      `json:"connected"`
	Feed      FeedStats `json:"feed"`
}
