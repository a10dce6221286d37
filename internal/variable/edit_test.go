package variable

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func list(values ...string) Value { return StringList(Items(values...)...) }

func TestApply_AppendText(t *testing.T) {
	got, err := Apply(Text("foo"), Edit{Type: Append}, Text("bar"))
	require.NoError(t, err)
	assert.Equal(t, "foobar", got.Text)
}

func TestApply_AppendList(t *testing.T) {
	got, err := Apply(list("a"), Edit{Type: Append}, list("b", "c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got.Strings())
}

func TestApply_WrongType(t *testing.T) {
	for _, edit := range []EditType{Append, Remove, InsertAt} {
		_, err := Apply(Text("foo"), Edit{Type: edit}, list("x"))
		if !errors.Is(err, ErrWrongType) {
			t.Fatalf("%s: expected ErrWrongType, got %v", edit, err)
		}
	}
}

func TestApply_OverwriteChangesTag(t *testing.T) {
	got, err := Apply(Text("foo"), Edit{Type: Overwrite}, list("x"))
	require.NoError(t, err)
	assert.Equal(t, KindStringList, got.Kind)
}

func TestApply_RemoveAtSkipsTypeCheck(t *testing.T) {
	got, err := Apply(Text("abc"), Edit{Type: RemoveAt, Index: 1}, list("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "ac", got.Text)
}

func TestApply_RemoveAllOccurrences(t *testing.T) {
	got, err := Apply(Text("a-b-c"), Edit{Type: Remove}, Text("-"))
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Text)

	got, err = Apply(list("x", "y", "x"), Edit{Type: Remove}, list("x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, got.Strings())
}

func TestApply_InsertAtClamps(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{-5, "XYabc"},
		{0, "XYabc"},
		{2, "abXYc"},
		{3, "abcXY"},
		{99, "abcXY"},
	}
	for _, c := range cases {
		got, err := Apply(Text("abc"), Edit{Type: InsertAt, Index: c.index}, Text("XY"))
		require.NoError(t, err)
		assert.Equal(t, c.want, got.Text, "index %d", c.index)
	}

	got, err := Apply(list("a", "b"), Edit{Type: InsertAt, Index: 10}, list("z"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "z"}, got.Strings())
}

func TestApply_RemoveAtClamps(t *testing.T) {
	got, err := Apply(list("a", "b", "c"), Edit{Type: RemoveAt, Index: 42}, Value{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Strings())

	got, err = Apply(list("a", "b", "c"), Edit{Type: RemoveAt, Index: -1}, Value{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got.Strings())

	got, err = Apply(list(), Edit{Type: RemoveAt, Index: 0}, Value{})
	require.NoError(t, err)
	assert.Empty(t, got.List)
}

func TestProperty_EditsClampIndex(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("insert grows text by operand length", prop.ForAll(
		func(s string, index int) bool {
			got, err := Apply(Text(s), Edit{Type: InsertAt, Index: index}, Text("#"))
			return err == nil && len([]rune(got.Text)) == len([]rune(s))+1
		},
		gen.AlphaString(), gen.IntRange(-100, 100),
	))

	properties.Property("remove-at shrinks non-empty lists by one", prop.ForAll(
		func(values []string, index int) bool {
			got, err := Apply(list(values...), Edit{Type: RemoveAt, Index: index}, Value{})
			if err != nil {
				return false
			}
			if len(values) == 0 {
				return len(got.List) == 0
			}
			return len(got.List) == len(values)-1
		},
		gen.SliceOf(gen.AlphaString()), gen.IntRange(-100, 100),
	))

	properties.TestingRun(t)
}

func TestValueJSON(t *testing.T) {
	b, err := Text("hi").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"Text":"hi"}`, string(b))

	var v Value
	require.NoError(t, v.UnmarshalJSON([]byte(`{"StringList":[{"time_created":"2020-01-01T00:00:00Z","value":"a"}]}`)))
	assert.Equal(t, KindStringList, v.Kind)
	assert.Equal(t, []string{"a"}, v.Strings())
	assert.Equal(t, `["a"]`, v.String())

	assert.Error(t, v.UnmarshalJSON([]byte(`{"Other":1}`)))
}
