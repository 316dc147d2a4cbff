package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// The With* helpers are chained directly at call sites
// (logger.WithDraftID(id).Error().Err(err).Msg(...)), so they must return a
// logger the level methods can be called on.
func TestContextHelpersChainEvents(t *testing.T) {
	var buf bytes.Buffer
	prev := zlog
	zlog = zerolog.New(&buf)
	defer func() { zlog = prev }()

	WithDraftID("draft-1").Error().Msg("flush failed")
	WithUserID("user-1").Info().Msg("draft created")
	WithRequestID("req-1").Warn().Msg("slow request")

	out := buf.String()
	assert.Contains(t, out, `"draft_id":"draft-1"`)
	assert.Contains(t, out, `"user_id":"user-1"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
}
