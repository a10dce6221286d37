package script

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/stovbot/internal/variable"
)

type memStore struct {
	vars map[string]*variable.Variable
	sets int
}

func newMemStore() *memStore { return &memStore{vars: map[string]*variable.Variable{}} }

func (m *memStore) GetVariable(name string) (*variable.Variable, error) {
	v, ok := m.vars[name]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) SetVariable(v *variable.Variable) error {
	m.sets++
	cp := *v
	m.vars[v.Name] = &cp
	return nil
}

func render(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return New(opts...).Render(ctx, src)
}

func TestRenderBasics(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"2 + 2", "4"},
		{`"message " + string(2 + 2) + " foo"`, "message 4 foo"},
		{"3 * 0.5", "1.5"},
		{"2 * 2.0", "4"},
		{"7 / 2", "3"},
		{"7 % 4", "3"},
		{"-3 + 1", "-2"},
		{`"5" + 1`, "6"},
		{`1 + "5"`, "6"},
		{`"1.5" + 1.0`, "2.5"},
		{"1 < 2 && !false", "true"},
		{"if 1 > 2 { 1 } else if 2 > 1 { 2 } else { 3 }", "2"},
		{"let x = 1; x", "1"},
		{"let x = 1; x;", ""},
		{"let l = [1, 2, 3]; l[1]", "2"},
		{"let l = [1, 2, 3]; l[0] += 10; l[0]", "11"},
		{`["a", "b"]`, `["a", "b"]`},
		{`len("héllo")`, "5"},
		{`int("42")`, "42"},
		{`int("")`, "0"},
		{`int("nope")`, "0"},
		{"floor(2.7)", "2"},
		{"let i = 0; loop { i += 1; if i == 5 { break } } i", "5"},
		{"let x = 1; { let x = 2; } x", "1"},
		{`"a" == "a"`, "true"},
		{"1 == 1.0", "true"},
		{"// comment\n1", "1"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			assert.Equal(t, c.want, render(t, c.src))
		})
	}
}

func TestRenderErrors(t *testing.T) {
	cases := []struct {
		src      string
		contains string
	}{
		{`"message " + 4`, "Could not parse string as number"},
		{"1 / 0", "Division by zero"},
		{"nope", "Variable not found: nope"},
		{"nope()", "Function not found: nope"},
		{"[1][5]", "out of bounds"},
		{"random_index([])", "random_index(): list is empty"},
		{"let x = 1 x", "Syntax error"},
		{`"open`, "Syntax error"},
		{"if 1 { 2 }", "condition must be a bool"},
		{"len(1, 2)", "len(): expects 1 argument(s), got 2"},
		{`get("x")`, "no variable store available"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got := render(t, c.src)
			assert.True(t, strings.HasPrefix(got, ErrorPrefix), "got %q", got)
			assert.Contains(t, got, c.contains)
		})
	}
}

func TestD6(t *testing.T) {
	src := `let n = int(""); if n == 0 { n = 1 } let i = 0; let d = 0; while i < n { i += 1; d += floor(random() * 6) + 1 } d`
	for i := 0; i < 20; i++ {
		n, err := strconv.Atoi(render(t, src))
		require.NoError(t, err)
		assert.True(t, n >= 1 && n <= 6, "got %d", n)
	}
}

func TestCoinflip(t *testing.T) {
	src := `if random() > 0.5 { "Heads!" } else { "Tails!" }`
	for i := 0; i < 10; i++ {
		got := render(t, src)
		assert.Contains(t, []string{"Heads!", "Tails!"}, got)
	}
}

func TestEightBall(t *testing.T) {
	responses := []string{"Yes!", "No!", "Ask again later."}
	src := `let responses = ["Yes!", "No!", "Ask again later."]; responses[floor(random() * len(responses))]`
	alt := `let responses = ["Yes!", "No!", "Ask again later."]; responses[random_index(responses)]`
	for i := 0; i < 20; i++ {
		assert.Contains(t, responses, render(t, src))
		assert.Contains(t, responses, render(t, alt))
	}
}

func TestDeterministicRand(t *testing.T) {
	src := "random_index([1, 2, 3, 4, 5, 6, 7, 8])"
	a := render(t, src, WithRand(rand.New(rand.NewPCG(1, 2))))
	b := render(t, src, WithRand(rand.New(rand.NewPCG(1, 2))))
	assert.Equal(t, a, b)
}

func TestCounter(t *testing.T) {
	store := newMemStore()
	store.vars["count"] = variable.New("count", variable.Text("0"))
	src := `let count = get("count"); count += 1; set("count", count); count`

	assert.Equal(t, "1", render(t, src, WithStore(store)))
	assert.Equal(t, "2", render(t, src, WithStore(store)))
	assert.Equal(t, "2", store.vars["count"].Value.Text)
}

func TestVariableTypeErrors(t *testing.T) {
	store := newMemStore()
	store.vars["quotes"] = variable.New("quotes", variable.StringList(variable.Items("a")...))
	store.vars["name"] = variable.New("name", variable.Text("x"))

	assert.Equal(t, "Script Error: Variable quotes is StringList, not Text. Use get_list()!",
		render(t, `get("quotes")`, WithStore(store)))
	assert.Equal(t, "Script Error: Variable name is Text, not StringList. Use get()!",
		render(t, `get_list("name")`, WithStore(store)))
	assert.Equal(t, "Script Error: Variable missing does not exist!",
		render(t, `get("missing")`, WithStore(store)))
	assert.Equal(t, "Script Error: Variable quotes is StringList, not Text. Use get_list()!",
		render(t, `set("quotes", 1)`, WithStore(store)))
	assert.Equal(t, 0, store.sets)
}

func TestQuotes(t *testing.T) {
	store := newMemStore()
	store.vars["quotes"] = variable.New("quotes", variable.StringList(variable.Items("hello", "hi", "howdy")...))
	script := func(arg string) string {
		return `let quotes = get_list("quotes"); let i = int("` + arg + `"); if i == 0 { i = random_index(quotes) } else { i -= 1 } quotes[i]`
	}
	for i := 0; i < 10; i++ {
		assert.Contains(t, []string{"hello", "hi", "howdy"}, render(t, script(""), WithStore(store)))
		assert.Equal(t, "hi", render(t, script("2"), WithStore(store)))
	}
}

func TestStoreOpenedLazily(t *testing.T) {
	opened := 0
	opener := WithStoreOpener(func() (VariableStore, error) {
		opened++
		return newMemStore(), nil
	})
	assert.Equal(t, "4", render(t, "2 + 2", opener))
	assert.Equal(t, 0, opened)

	e := New(opener)
	ctx := context.Background()
	assert.Equal(t, "", e.Render(ctx, `set("a", 1)`))
	assert.Equal(t, "1", e.Render(ctx, `get("a")`))
	assert.Equal(t, 1, opened)
}

func TestLoopStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := New().Eval(ctx, "while true {}")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	_, err = New().Eval(ctx, "loop{}")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
