package models

import "time"

// Transaction is the immutable record of one completed sale
type Transaction struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	Player    Player    `json:"player"`
	TeamID    string    `json:"teamId"`
	Team      Team      `json:"team"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"createdAt"`
}

// CloneTransactions deep copies a transaction slice. A nil slice stays nil.
func CloneTransactions(txns []Transaction) []Transaction {
	if txns == nil {
		return nil
	}
	out := make([]Transaction, len(txns))
	for i, t := range txns {
		t.Player = t.Player.Clone()
		out[i] = t
	}
	return out
}
