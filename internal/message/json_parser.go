package message

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseTransaction decodes a JSON transaction and checks that the required
// fields are present. Decoding failures wrap ErrJSONUnmarshalFailed.
func ParseTransaction(data []byte) (Transaction, error) {
	var tx Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}
	if tx.Amount == nil {
		return Transaction{}, ErrMissingAmount
	}
	if !tx.Timestamp.IsSet() {
		return Transaction{}, ErrMissingTimestamp
	}
	return tx, nil
}

// EncodeTransaction is the inverse of ParseTransaction.
func EncodeTransaction(tx Transaction) ([]byte, error) {
	return json.Marshal(tx)
}
