package session

import (
	"context"
	"testing"

	"github.com/panecast/panecast/internal/signaling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRemote(t *testing.T) {
	tests := []struct {
		name    string
		roster  []signaling.Participant
		selfID  string
		want    string
		wantErr bool
	}{
		{
			name: "skips self",
			roster: []signaling.Participant{
				{ID: "a", Connected: true},
				{ID: "b", Connected: true},
			},
			selfID: "a",
			want:   "b",
		},
		{
			name: "first eligible wins",
			roster: []signaling.Participant{
				{ID: "a", Connected: true},
				{ID: "b", Connected: true},
				{ID: "c", Connected: true},
			},
			selfID: "b",
			want:   "a",
		},
		{
			name: "skips disconnected",
			roster: []signaling.Participant{
				{ID: "a", Connected: true},
				{ID: "b", Connected: false},
				{ID: "c", Connected: true},
			},
			selfID: "a",
			want:   "c",
		},
		{
			name:    "empty roster",
			roster:  nil,
			selfID:  "a",
			wantErr: true,
		},
		{
			name:    "only self",
			roster:  []signaling.Participant{{ID: "a", Connected: true}},
			selfID:  "a",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectRemote(tt.roster, tt.selfID)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoRemoteFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsumerStreamRequiresChannel(t *testing.T) {
	consumer := NewConsumer(nil, nil, NewHeadlessRenderer())
	att := newAttempt(1, "consumer-test")

	err := consumer.Stream(context.Background(), att)
	require.ErrorIs(t, err, ErrChannelNotOpen)
}
