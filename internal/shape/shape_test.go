package shape

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRect(t *testing.T) {
	raw := `{"type":"rect","x":10,"y":10,"width":50,"height":30,"id":"abc","color":"#ff0000","lineWidth":2}`

	s, err := Decode([]byte(raw))
	require.NoError(t, err)

	r, ok := s.(*Rect)
	require.True(t, ok, "expected *Rect, got %T", s)
	assert.Equal(t, "abc", r.ID)
	assert.Equal(t, "#ff0000", r.Color)
	assert.Equal(t, 50.0, r.Width)
	assert.Equal(t, 30.0, r.Height)
}

func TestDecodeEllipseUsesCircleTag(t *testing.T) {
	raw := `{"type":"circle","centerX":5,"centerY":6,"radiusX":7,"radiusY":8,"id":"e1"}`

	s, err := Decode([]byte(raw))
	require.NoError(t, err)

	e, ok := s.(*Ellipse)
	require.True(t, ok)
	assert.Equal(t, 7.0, e.RadiusX)
	assert.Equal(t, 8.0, e.RadiusY)
}

func TestEncodeCarriesTypeTag(t *testing.T) {
	p := &Pencil{
		Common: Common{Type: KindPencil, ID: NewID(), Color: "#ffffff", LineWidth: 2},
		Points: []Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
	}

	data, err := Encode(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "pencil", fields["type"])

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, p.Points, back.(*Pencil).Points)
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"scribble","id":"x"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestCollectionDuplicateAppendIsNoop(t *testing.T) {
	c := NewCollection()
	r := &Rect{Common: Common{Type: KindRect, ID: "dup"}}

	assert.True(t, c.Append(r))
	assert.False(t, c.Append(r), "second append of same id must be a no-op")
	assert.Equal(t, 1, c.Len())
}

func TestCollectionRemove(t *testing.T) {
	c := NewCollection()
	c.Append(&Rect{Common: Common{Type: KindRect, ID: "a"}})
	c.Append(&Line{Common: Common{Type: KindLine, ID: "b"}})

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"), "double delete is benign")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "b", c.All()[0].Meta().ID)
}

func TestCollectionResetRestoresOrder(t *testing.T) {
	c := NewCollection()
	c.Append(&Rect{Common: Common{Type: KindRect, ID: "stale"}})

	history := []Shape{
		&Rect{Common: Common{Type: KindRect, ID: "first"}},
		&Rect{Common: Common{Type: KindRect, ID: "second"}},
	}
	c.Reset(history)

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Meta().ID)
	assert.Equal(t, "second", all[1].Meta().ID)
}
