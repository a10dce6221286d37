package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/VoxDroid/stovbot/internal/command"
	"github.com/VoxDroid/stovbot/internal/config"
	"github.com/VoxDroid/stovbot/internal/db"
	"github.com/VoxDroid/stovbot/internal/events"
	"github.com/VoxDroid/stovbot/internal/policy"
	"github.com/VoxDroid/stovbot/internal/sandbox"
	"github.com/VoxDroid/stovbot/internal/script"
	"github.com/VoxDroid/stovbot/internal/store"
	"github.com/VoxDroid/stovbot/internal/variable"
)

const childEnv = "STOVBOT_SANDBOX_CHILD"

func TestMain(m *testing.M) {
	if os.Getenv(childEnv) == "1" {
		os.Exit(sandbox.Serve(os.Args[1:], os.Stdout))
	}
	goleak.VerifyTestMain(m)
}

// inProcess evaluates scripts without a child process.
type inProcess struct{ e *script.Engine }

func (r inProcess) RunScript(ctx context.Context, src string) string {
	return r.e.Render(ctx, src)
}

type harness struct {
	engine *Engine
	repo   *store.Repository
	bus    *events.Bus
	events <-chan events.Event
	path   string
}

func newRepo(t *testing.T) (*store.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stovbot.db")
	conn, err := db.Open(path)
	require.NoError(t, err)
	repo := store.NewRepository(conn)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func newHarness(t *testing.T, mutate func(*Options)) *harness {
	t.Helper()
	repo, path := newRepo(t)
	bus := events.NewBus(nil)
	ch, unsubscribe := bus.Subscribe()
	t.Cleanup(unsubscribe)
	opts := Options{
		BotName:  "StovBot",
		Store:    repo,
		Scripts:  inProcess{script.New(script.WithStore(repo))},
		Bus:      bus,
		Location: path,
	}
	if mutate != nil {
		mutate(&opts)
	}
	e, err := New(opts)
	require.NoError(t, err)
	return &harness{engine: e, repo: repo, bus: bus, events: ch, path: path}
}

func (h *harness) say(t *testing.T, user, text string) string {
	t.Helper()
	r, err := h.engine.Respond(context.Background(), command.Message{Sender: command.User{Name: user}, Text: text})
	require.NoError(t, err)
	if r == nil {
		return ""
	}
	return r.Text
}

// drain returns the queued events that are not load events.
func (h *harness) drain() []events.Event {
	var out []events.Event
	for {
		select {
		case ev := <-h.events:
			if !ev.Kind.IsLoad() {
				out = append(out, ev)
			}
		default:
			return out
		}
	}
}

func TestNewLoadsBuiltInsAndDefaults(t *testing.T) {
	h := newHarness(t, nil)
	reg := h.engine.Registry()
	for _, trig := range []string{"!command add", "!variable edit", "!8ball", "!quote", "!quote add"} {
		assert.True(t, reg.Contains(trig), trig)
		assert.True(t, reg.IsBuiltIn(trig), trig)
	}
	quoteAdd, _ := reg.Get("!quote add")
	assert.True(t, quoteAdd.IsAlias)
	assert.Equal(t, h.path, quoteAdd.Location)

	var loads, vars int
drain:
	for {
		select {
		case ev := <-h.events:
			switch ev.Kind {
			case events.LoadCommand:
				loads++
			case events.LoadVariable:
				vars++
				assert.Equal(t, "quotes", ev.Subject)
			}
		default:
			break drain
		}
	}
	assert.Equal(t, reg.Len(), loads)
	assert.Equal(t, 1, vars)

	v, err := h.repo.GetVariable("quotes")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, variable.KindStringList, v.Value.Kind)
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestRespondIgnoresUnknownAndSelf(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, "", h.say(t, "bob", "hello there"))
	assert.Equal(t, "", h.say(t, "bob", "!nothing"))
	assert.Equal(t, "", h.say(t, "StovBot", "!command add !x y"))
	assert.False(t, h.engine.Registry().Contains("!x"))
}

func TestAddCommand(t *testing.T) {
	h := newHarness(t, nil)
	h.drain()

	assert.Equal(t, "Your command has been added", h.say(t, "alice", "!command add !hi Hello $user, $1!"))
	assert.Equal(t, "Hello bob, world!", h.say(t, "bob", "!hi world"))

	row, err := h.repo.GetCommand("!hi")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Hello $user, $1!", row.Response)
	assert.False(t, row.IsAlias)

	c, ok := h.engine.Registry().Get("!hi")
	require.True(t, ok)
	assert.Equal(t, row.ID, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	evs := h.drain()
	require.Len(t, evs, 1)
	assert.Equal(t, events.AddCommand, evs[0].Kind)
	assert.Equal(t, "!hi", evs[0].Subject)
	assert.Equal(t, "alice", evs[0].User)
	assert.Empty(t, evs[0].PersistError)

	assert.Equal(t, "CommandAlreadyExists", h.say(t, "alice", "!command add !hi again"))
	assert.Empty(t, h.drain())
}

func TestAddCommandRejectsBadInput(t *testing.T) {
	h := newHarness(t, nil)
	cases := map[string]string{
		"!command add !x":        `BadCommand("!x")`,
		"!command add":           `BadCommand("")`,
		"!command add hi there":  "BadCommandTriggerPrefix",
		"!command delete hi":     "BadCommandTriggerPrefix",
		"!command delete !nope":  "CommandDoesNotExist",
		"!command edit !nope x":  "CommandDoesNotExist",
		"!command edit !8ball x": "CannotModifyBuiltInCommand",
		"!command delete !quote": "CannotDeleteBuiltInCommand",
		"!command add !8ball x":  "CommandAlreadyExists",
	}
	for in, want := range cases {
		assert.Equal(t, want, h.say(t, "alice", in), in)
	}
}

func TestEditAndDeleteCommand(t *testing.T) {
	h := newHarness(t, nil)
	h.say(t, "alice", "!command add !hi one")
	assert.Equal(t, "Your command has been edited", h.say(t, "alice", "!command edit !hi two"))
	assert.Equal(t, "two", h.say(t, "bob", "!hi"))

	h.drain()
	assert.Equal(t, "Your command has been deleted", h.say(t, "alice", "!command delete !hi trailing words"))
	assert.Equal(t, "", h.say(t, "bob", "!hi"))
	row, err := h.repo.GetCommand("!hi")
	require.NoError(t, err)
	assert.Nil(t, row)

	evs := h.drain()
	require.Len(t, evs, 1)
	assert.Equal(t, events.DeleteCommand, evs[0].Kind)
	assert.Equal(t, "two", evs[0].Old)
}

func TestEditPreservesAliasFlag(t *testing.T) {
	h := newHarness(t, nil)
	h.say(t, "alice", "!command add !target hit")
	h.say(t, "alice", "!command add !other other")
	assert.Equal(t, "Your alias has been added", h.say(t, "alice", "!alias add !go !target"))
	assert.Equal(t, "hit", h.say(t, "bob", "!go"))

	h.say(t, "alice", "!command edit !go !other")
	assert.Equal(t, "other", h.say(t, "bob", "!go"))
	row, err := h.repo.GetCommand("!go")
	require.NoError(t, err)
	assert.True(t, row.IsAlias)
}

func TestAliasWithoutTarget(t *testing.T) {
	h := newHarness(t, nil)
	h.say(t, "alice", "!alias add !broken nowhere")
	assert.Equal(t, "BadCommandAlias", h.say(t, "bob", "!broken"))
}

func TestAliasCycleIsCapped(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.AliasDepth = 3 })
	h.say(t, "alice", "!alias add !ping !pong")
	h.say(t, "alice", "!alias add !pong !ping")
	assert.Equal(t, "BadCommandAlias", h.say(t, "bob", "!ping"))
}

func TestVariableLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	steps := []struct{ in, want string }{
		{"!variable add greeting hello", "Your variable has been added"},
		{"!variable add greeting again", "VariableAlreadyExists"},
		{"!variable edit greeting+ !!", "Your variable has been edited"},
		{"!variable edit greeting+ [x]", "VariableWrongType"},
		{"!variable edit missing+ x", "VariableDoesNotExist"},
		{"!variable edit greeting+#", "VariableBadEditIndex"},
		{"!variable edit greeting+# one x", "VariableBadEditIndexValue"},
		{"!variable edit greeting* x", "VariableEditTypeNotSupported"},
		{"!variable edit greeting+# 0 >", "Your variable has been edited"},
	}
	for _, s := range steps {
		assert.Equal(t, s.want, h.say(t, "alice", s.in), s.in)
	}
	v, err := h.repo.GetVariable("greeting")
	require.NoError(t, err)
	assert.Equal(t, ">hello!!", v.Value.Text)

	h.drain()
	assert.Equal(t, "Your variable has been deleted", h.say(t, "alice", "!variable delete greeting"))
	assert.Equal(t, "VariableDoesNotExist", h.say(t, "alice", "!variable delete greeting"))
	evs := h.drain()
	require.Len(t, evs, 1)
	assert.Equal(t, events.DeleteVariable, evs[0].Kind)
	assert.Equal(t, ">hello!!", evs[0].Old)
}

func TestOverwriteMayChangeType(t *testing.T) {
	h := newHarness(t, nil)
	h.say(t, "alice", "!variable add things one")
	assert.Equal(t, "Your variable has been edited", h.say(t, "alice", "!variable edit things [a]"))
	v, err := h.repo.GetVariable("things")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v.Value.Strings())
}

func TestQuoteAddAlias(t *testing.T) {
	h := newHarness(t, nil)
	h.drain()
	assert.Equal(t, "Your variable has been edited", h.say(t, "alice", "!quote add first"))
	assert.Equal(t, "Your variable has been edited", h.say(t, "alice", "!quote add second"))

	v, err := h.repo.GetVariable("quotes")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, v.Value.Strings())

	assert.Equal(t, "second", h.say(t, "bob", "!quote 2"))
	assert.Contains(t, []string{"first", "second"}, h.say(t, "bob", "!quote"))

	evs := h.drain()
	require.Len(t, evs, 2)
	assert.Equal(t, events.EditVariable, evs[0].Kind)
	assert.Equal(t, "alice", evs[0].User)
	assert.Equal(t, `["first"]`, evs[0].New)
}

func TestPermissionRules(t *testing.T) {
	p, err := policy.New([]config.PermissionRule{{Trigger: "!command", Allow: `user == "admin"`}})
	require.NoError(t, err)
	h := newHarness(t, func(o *Options) { o.Policy = p })

	assert.Equal(t, "PermissionDenied", h.say(t, "bob", "!command add !x y"))
	assert.False(t, h.engine.Registry().Contains("!x"))
	assert.Equal(t, "Your command has been added", h.say(t, "admin", "!command add !x y"))
	assert.Equal(t, "y", h.say(t, "bob", "!x"))
	assert.Equal(t, "Your variable has been added", h.say(t, "bob", "!variable add v 1"))
}

// failingStore fails command writes.
type failingStore struct{ *store.Repository }

var errDiskFull = errors.New("disk full")

func (failingStore) AddCommand(*store.CommandRow) (int64, error) { return 0, errDiskFull }

func TestPersistFailureStillUpdatesRegistry(t *testing.T) {
	repo, path := newRepo(t)
	bus := events.NewBus(nil)
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	e, err := New(Options{Store: failingStore{repo}, Bus: bus, Location: path})
	require.NoError(t, err)
	h := &harness{engine: e, repo: repo, bus: bus, events: ch}

	assert.Equal(t, "Your command has been added", h.say(t, "alice", "!command add !x y"))
	assert.Equal(t, "y", h.say(t, "bob", "!x"))
	row, err := repo.GetCommand("!x")
	require.NoError(t, err)
	assert.Nil(t, row)

	evs := h.drain()
	require.Len(t, evs, 1)
	assert.Equal(t, "disk full", evs[0].PersistError)
}

func TestRecordPersistsChanges(t *testing.T) {
	h := newHarness(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Record(ctx, h.events, h.repo, nil) }()

	h.say(t, "alice", "!command add !hi hello")
	h.say(t, "alice", "!variable add n 1")

	require.Eventually(t, func() bool {
		recs, err := h.repo.ListEvents(0)
		return err == nil && len(recs) == 2
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	recs, err := h.repo.ListEvents(0)
	require.NoError(t, err)
	kinds := []string{recs[0].Kind, recs[1].Kind}
	assert.ElementsMatch(t, []string{"AddCommand", "AddVariable"}, kinds)
	for _, r := range recs {
		assert.Equal(t, "alice", r.Actor.String)
		assert.False(t, r.PersistError.Valid)
	}
}

func TestSandboxedScripts(t *testing.T) {
	repo, path := newRepo(t)
	runner := &sandbox.Runner{
		Command:      []string{os.Args[0]},
		DatabasePath: path,
		Timeout:      500 * time.Millisecond,
		KillGrace:    300 * time.Millisecond,
		Env:          []string{childEnv + "=1"},
	}
	e, err := New(Options{Store: repo, Scripts: runner, Location: path})
	require.NoError(t, err)
	h := &harness{engine: e, repo: repo}

	h.say(t, "alice", "!variable add count 0")
	h.say(t, "alice", `!command add !count Count: {{let c = get("count"); c += 1; set("count", c); c}}`)
	assert.Equal(t, "Count: 1", h.say(t, "bob", "!count"))
	assert.Equal(t, "Count: 2", h.say(t, "bob", "!count"))

	h.say(t, "alice", "!command add !spin {{loop {}}}")
	start := time.Now()
	assert.Equal(t, "Script Error: Timeout", h.say(t, "bob", "!spin"))
	assert.Less(t, time.Since(start), 2*time.Second)

	h.say(t, "alice", "!command add !d6 You rolled {{1 + random_index([1, 2, 3, 4, 5, 6])}}")
	out := h.say(t, "bob", "!d6")
	assert.Regexp(t, `^You rolled [1-6]$`, out)
}
