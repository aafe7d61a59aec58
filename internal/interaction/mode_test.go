package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingIndicator struct {
	states []bool
}

func (r *recordingIndicator) SetPlacing(placing bool) {
	r.states = append(r.states, placing)
}

func TestControllerStartsInBrowse(t *testing.T) {
	t.Parallel()

	c := NewController(nil)
	assert.Equal(t, ModeBrowse, c.Mode())
	assert.Equal(t, "browse", c.Mode().String())
}

func TestControllerToggleMirrorsIndicator(t *testing.T) {
	t.Parallel()

	indicator := &recordingIndicator{}
	c := NewController(indicator)

	assert.Equal(t, ModePlaceMarker, c.Toggle())
	assert.Equal(t, "place-marker", c.Mode().String())
	assert.Equal(t, ModeBrowse, c.Toggle())
	assert.Equal(t, []bool{true, false}, indicator.states)
}

func TestControllerForceOffIsIdempotent(t *testing.T) {
	t.Parallel()

	indicator := &recordingIndicator{}
	c := NewController(indicator)

	c.Toggle()
	c.ForceOff()
	c.ForceOff()

	assert.Equal(t, ModeBrowse, c.Mode())
	assert.Equal(t, []bool{true, false, false}, indicator.states)
}
