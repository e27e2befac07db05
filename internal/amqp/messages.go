package amqp

import (
	"encoding/json"
	"time"
)

// DatasetRefreshedMessage announces a completed refresh. Consumers that want
// the data itself fetch it from the API; the message carries only summary
// fields.
type DatasetRefreshedMessage struct {
	StartDate        string    `json:"startDate"`
	EndDate          string    `json:"endDate"`
	TransactionCount int       `json:"transactionCount"`
	DayCount         int       `json:"dayCount"`
	LastUpdated      time.Time `json:"lastUpdated"`
	Timestamp        time.Time `json:"timestamp"`
}

func NewDatasetRefreshedMessage(start, end string, transactions, days int, lastUpdated time.Time) *DatasetRefreshedMessage {
	return &DatasetRefreshedMessage{
		StartDate:        start,
		EndDate:          end,
		TransactionCount: transactions,
		DayCount:         days,
		LastUpdated:      lastUpdated,
		Timestamp:        time.Now(),
	}
}

func (m *DatasetRefreshedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DatasetRefreshedMessageFromJSON(data []byte) (*DatasetRefreshedMessage, error) {
	var msg DatasetRefreshedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
