package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/gesture"
)

type recordingPresser struct {
	keys []string
	err  error
}

func (p *recordingPresser) Press(key string) error {
	p.keys = append(p.keys, key)
	return p.err
}

func TestDefaultTable(t *testing.T) {
	tests := []struct {
		label    gesture.Label
		wantKey  string
		wantText string
	}{
		{0, "", ""},
		{1, "space", "forward"},
		{2, "left", "backward"},
		{3, "right", "volume up"},
		{4, "up", "volume down"},
		{5, "down", "volume down"},
	}

	table := DefaultTable()
	for _, tt := range tests {
		b := table.Lookup(tt.label)
		assert.Equal(t, tt.wantKey, b.Key, "key for label %d", tt.label)
		assert.Equal(t, tt.wantText, b.Text, "text for label %d", tt.label)
	}
}

func TestTable_LookupOutOfRange(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, Binding{}, table.Lookup(-1))
	assert.Equal(t, Binding{}, table.Lookup(6))
}

func TestDispatcher_LevelMode(t *testing.T) {
	presser := &recordingPresser{}
	d := NewDispatcher(DefaultTable(), presser, ModeLevel, nil)

	t.Run("label zero presses nothing", func(t *testing.T) {
		res := d.Dispatch(0)
		assert.False(t, res.Fired)
		assert.Empty(t, res.Key)
		assert.Empty(t, res.Text)
		assert.Empty(t, presser.keys)
	})

	t.Run("every cycle re-fires a held gesture", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			res := d.Dispatch(1)
			assert.True(t, res.Fired)
			assert.Equal(t, "space", res.Key)
			assert.Equal(t, "forward", res.Text)
		}
		assert.Equal(t, []string{"space", "space", "space"}, presser.keys)
	})
}

func TestDispatcher_EdgeMode(t *testing.T) {
	presser := &recordingPresser{}
	d := NewDispatcher(DefaultTable(), presser, ModeEdge, nil)

	sequence := []gesture.Label{2, 2, 2, 3, 3, 2}
	var texts []string
	for _, l := range sequence {
		texts = append(texts, d.Dispatch(l).Text)
	}

	assert.Equal(t, []string{"left", "right", "left"}, presser.keys)
	assert.Equal(t, []string{"backward", "backward", "backward", "volume up", "volume up", "backward"}, texts)

	d.Reset()
	res := d.Dispatch(2)
	assert.True(t, res.Fired, "gesture should fire again after Reset")
	assert.Equal(t, []string{"left", "right", "left", "left"}, presser.keys)
}

func TestDispatcher_PressErrorIsSwallowed(t *testing.T) {
	presser := &recordingPresser{err: errors.New("no display")}
	d := NewDispatcher(DefaultTable(), presser, ModeLevel, nil)

	res := d.Dispatch(5)
	assert.True(t, res.Fired)
	assert.Equal(t, "down", res.Key)
	assert.Equal(t, "volume down", res.Text)
	assert.Equal(t, []string{"down"}, presser.keys)
}

func TestDispatcher_NilPresser(t *testing.T) {
	d := NewDispatcher(DefaultTable(), nil, "", nil)
	assert.Equal(t, ModeLevel, d.Mode())

	res := d.Dispatch(4)
	assert.True(t, res.Fired)
	assert.Equal(t, "volume down", res.Text)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeLevel, false},
		{"level", ModeLevel, false},
		{" Edge ", ModeEdge, false},
		{"toggle", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			require.Error(t, err, "ParseMode(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseMode(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
