package exporterr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("writing intent: %w", New(IO, "write intents/a.json", fs.ErrPermission))

	assert.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, ErrGraphIntegrity)
	assert.ErrorIs(t, err, fs.ErrPermission, "the cause must stay reachable")
	assert.Equal(t, IO, KindOf(err))
}

func TestError_Message(t *testing.T) {
	err := Errorf(GraphIntegrity, "message m1", "edge targets unknown message %q", "m9")
	assert.Equal(t, `GraphIntegrityError: message m1: edge targets unknown message "m9"`, err.Error())

	assert.Equal(t, "RenderError", (&Error{Kind: Render}).Error())
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
