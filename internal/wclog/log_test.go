package wclog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentTagsComponentField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf}))

	Component("wcdb").Info().Msg("opened")

	var fields map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	assert.Equal(t, "wcdb", fields["component"])
	assert.Equal(t, "opened", fields["message"])
}

func TestWithWCRootAndWithPathAddFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf}))

	l := WithPath(WithWCRoot(Component("wcpath"), 7), "trunk/README")
	l.Info().Msg("resolved")

	var fields map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	assert.Equal(t, float64(7), fields["wcroot_id"])
	assert.Equal(t, "trunk/README", fields["relpath"])
}

func TestInitDebugLevelSuppressesNothingAboveIt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: DebugLevel, JSONOutput: true, Output: &buf}))

	Component("wcdb").Debug().Msg("verbose")
	assert.Contains(t, buf.String(), "verbose")
}

func TestInitRejectsUnrecognizedLevelButStillConfigures(t *testing.T) {
	var buf bytes.Buffer
	err := Init(Config{Level: Level("verbose"), JSONOutput: true, Output: &buf})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")

	// Falls back to info level rather than leaving the logger unusable.
	Component("wcdb").Info().Msg("still works")
	assert.Contains(t, buf.String(), "still works")
}

func TestComponentIsCachedPerName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf}))

	first := Component("wcdb")
	second := Component("wcdb")
	assert.Equal(t, first, second)
}

func TestInitClearsComponentCacheOnReconfigure(t *testing.T) {
	var buf1 bytes.Buffer
	require.NoError(t, Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf1}))
	Component("wcdb").Info().Msg("first")

	var buf2 bytes.Buffer
	require.NoError(t, Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf2}))
	Component("wcdb").Info().Msg("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second")
	assert.Contains(t, buf2.String(), "second")
}
