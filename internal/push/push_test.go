package push

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRunSenderCountsTokens(t *testing.T) {
	sender := DryRunSender{}

	result, err := sender.SendMulticast(context.Background(), []string{"a", "b", "c"}, Message{
		Title: "MadMed",
		Body:  "Time to give the morning medication.",
		Data:  map[string]string{"medId": "med1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)
}
