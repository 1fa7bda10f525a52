package qe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type marshalledEvent struct {
	Name    string         `json:"name"`
	Amounts map[string]int `json:"amounts"`
}

func TestJsonEventMarshaller(t *testing.T) {
	marshaller := NewJsonEventMarshaller()

	t.Run("round trips a payload", func(t *testing.T) {
		event := marshalledEvent{
			Name:    "caffè ☕",
			Amounts: map[string]int{"sku-1": 2, "sku-2": 7},
		}

		data, err := marshaller.Marshal(event)
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, "application/json", data.Encoding)

		var decoded marshalledEvent
		if !assert.Nil(t, marshaller.Unmarshal(data, &decoded)) {
			return
		}

		assert.Equal(t, event, decoded)
	})

	t.Run("rejects a mismatched encoding", func(t *testing.T) {
		var decoded marshalledEvent
		err := marshaller.Unmarshal(Data{Encoding: "application/protobuf"}, &decoded)

		var invalid *InvalidEncodingError
		assert.ErrorAs(t, err, &invalid)
	})
}
