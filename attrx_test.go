package attrx

import (
	"encoding/json"
	"errors"
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/builder"
	"dirpx.dev/attrx/config"
	"dirpx.dev/attrx/hierarchy"
	"dirpx.dev/attrx/manifest"
	"dirpx.dev/attrx/naming"
	"dirpx.dev/attrx/projection"
)

// Reset to a clean snapshot using our test builder.
// This fully replaces builder, config, ext and rebuilds every layer.
// Pins are reset (preg=false, pres=false) because we pass nil reg/res.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	SetAll(&cfg, ext, nil, nil, b)
}

// resetDefault installs the default builder with an empty registry.
func resetDefault(tb testing.TB) {
	tb.Helper()
	resetWithBuilder(tb, builder.New(), config.DefaultConfig(), nil)
	Registry().Reset()
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[apis.Key]apis.Entry
	seq  uint64
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[apis.Key]apis.Entry)}
}

func (m *mockRegistry) Register(t reflect.Type, context string, attrs apis.AttributeList, ov apis.Overrides) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	k := apis.Key{Type: t, Context: context}
	m.data[k] = apis.Entry{Key: k, Attributes: attrs, Overrides: ov, Seq: m.seq}
	return nil
}

func (m *mockRegistry) Lookup(t reflect.Type, context string) (apis.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[apis.Key{Type: t, Context: context}]
	return e, ok
}

func (m *mockRegistry) Contexts(reflect.Type) []string { return nil }

func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for _, e := range m.data {
		out = append(out, e)
	}
	return out
}

func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset()     { m.mu.Lock(); m.data = make(map[apis.Key]apis.Entry); m.mu.Unlock() }

type mockResolver struct {
	id       string
	mu       sync.Mutex
	resolveC int
}

func (r *mockResolver) Resolve(reflect.Type, string) (apis.Entry, bool) {
	r.mu.Lock()
	r.resolveC++
	r.mu.Unlock()
	return apis.Entry{}, false
}

type mockGenerator struct {
	res apis.Resolver
	cfg apis.Config
}

func (g *mockGenerator) Generate(context string, _ any) (any, error) {
	return g.cfg.ContextName(context), nil
}

type mockBuilder struct {
	mu             sync.Mutex
	lastCfg        apis.Config
	lastExt        any
	lastPrevRegID  string
	lastPrevResID  string
	regCounter     int
	resCounter     int
	genCounter     int
	returnFixedReg apis.Registry // optional override
	returnFixedRes apis.Resolver // optional override
}

func (b *mockBuilder) BuildHierarchy(cfg apis.Config, _ apis.Hierarchy, _ any) apis.Hierarchy {
	return hierarchy.New(cfg)
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	if b.returnFixedReg != nil {
		return b.returnFixedReg
	}
	b.regCounter++
	return newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, _ apis.Hierarchy, prev apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevResID = mr.id
	}
	if b.returnFixedRes != nil {
		return b.returnFixedRes
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

func (b *mockBuilder) BuildGenerator(cfg apis.Config, res apis.Resolver, _ any) apis.Generator {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.genCounter++
	return &mockGenerator{res: res, cfg: cfg}
}

func cfgWith(maxUnwrap int, mode apis.MatchMode) apis.Config {
	return config.NewConfig(config.WithMaxUnwrap(maxUnwrap), config.WithMatchMode(mode))
}

// ---------------------- Snapshot tests ----------------------

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWith(8, apis.Loose), nil)

	s1Reg := Registry()
	s1Res := Resolver()
	s1Gen := Generator()

	SetConfig(cfgWith(4, apis.Strict))

	if Registry() == s1Reg {
		t.Fatalf("registry was not rebuilt on SetConfig (unpinned)")
	}
	if Resolver() == s1Res {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}
	if Generator() == s1Gen {
		t.Fatalf("generator was not rebuilt on SetConfig")
	}

	b.mu.Lock()
	gotCfg, prevReg, prevRes := b.lastCfg, b.lastPrevRegID, b.lastPrevResID
	b.mu.Unlock()
	if gotCfg.MaxUnwrap != 4 || gotCfg.MatchMode != apis.Strict {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
	if prevReg != "reg#1" || prevRes != "res#1" {
		t.Fatalf("builder did not receive previous layers: reg=%q res=%q", prevReg, prevRes)
	}
	if Config().MaxUnwrap != 4 {
		t.Fatalf("Config() not updated: %+v", Config())
	}
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWith(8, apis.Loose), nil)

	customReg := newMockRegistry("custom")
	beforeRes := Resolver()
	SetRegistry(customReg)
	if !IsRegistryPinned() {
		t.Fatalf("SetRegistry should pin the registry")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt over the new registry")
	}

	beforeRes = Resolver()
	SetConfig(cfgWith(8, apis.Fold))

	if Registry() != customReg {
		t.Fatalf("pinned registry was rebuilt unexpectedly")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWith(8, apis.Loose), nil)

	customRes := &mockResolver{id: "custom"}
	SetResolver(customRes)
	if g := Generator().(*mockGenerator); g.res != customRes {
		t.Fatalf("generator not rebuilt over the pinned resolver")
	}

	regBefore := Registry()
	SetConfig(cfgWith(8, apis.Fold))

	if Resolver() != customRes {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Registry() == regBefore {
		t.Fatalf("registry was not rebuilt on SetConfig when resolver is pinned")
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, cfgWith(8, apis.Loose), nil)

	SetResolver(&mockResolver{id: "pinned"})
	regBefore := Registry()
	resBefore := Resolver()

	b := &mockBuilder{}
	SetBuilder(b)

	if Builder() != b {
		t.Fatalf("builder not swapped")
	}
	if Registry() == regBefore {
		t.Fatalf("registry did not rebuild after SetBuilder (unpinned)")
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastPrevRegID != "reg#1" {
		t.Fatalf("new builder did not receive previous registry: %q", b.lastPrevRegID)
	}
}

func TestSetExt_Rebuilds_Unpinned_and_PassesValue(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWith(8, apis.Loose), nil)

	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	if ec, ok := got.(extCfg); !ok || ec.X != 42 {
		t.Fatalf("builder did not receive ext properly: %#v", got)
	}
	if ec, ok := ExtAs[extCfg](); !ok || ec.X != 42 {
		t.Fatalf("ExtAs returned %#v, %v", ec, ok)
	}

	// Pin both and ensure no rebuild on SetExt
	SetRegistry(Registry())
	SetResolver(Resolver())
	counts := func() (int, int) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.regCounter, b.resCounter
	}
	rBefore, sBefore := counts()
	SetExt(extCfg{X: 7})
	rAfter, sAfter := counts()
	if rAfter != rBefore || sAfter != sBefore {
		t.Fatalf("SetExt should not rebuild when both layers are pinned")
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWith(8, apis.Loose), nil)

	PinRegistry()
	PinResolver()
	if !IsRegistryPinned() || !IsResolverPinned() {
		t.Fatalf("Pin* did not pin")
	}

	reg1 := Registry()
	res1 := Resolver()
	SetConfig(cfgWith(4, apis.Fold))
	if Registry() != reg1 || Resolver() != res1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinRegistry()
	UnpinResolver()
	SetConfig(cfgWith(6, apis.Strict))
	if Registry() == reg1 {
		t.Fatalf("registry should rebuild after UnpinRegistry+SetConfig")
	}
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestSetAll_PinsGivenLayers(t *testing.T) {
	b := &mockBuilder{}
	reg := newMockRegistry("given")
	cfg := cfgWith(3, apis.Fold)
	SetAll(&cfg, "ext", reg, nil, b)

	if Registry() != reg || !IsRegistryPinned() {
		t.Fatalf("SetAll should install and pin the given registry")
	}
	if IsResolverPinned() {
		t.Fatalf("SetAll with nil resolver should leave it unpinned")
	}
	if ext, _ := ExtAs[string](); ext != "ext" {
		t.Fatalf("ext = %q", ext)
	}
	if Config().MaxUnwrap != 3 {
		t.Fatalf("cfg not applied: %+v", Config())
	}
}

func TestNilBuilderResult_Panics(t *testing.T) {
	resetDefault(t)
	defer resetDefault(t)

	b := &nilRegistryBuilder{Builder: builder.New()}
	defer func() {
		if r := recover(); r != ErrNilRegistry {
			t.Fatalf("recover() = %v, want ErrNilRegistry", r)
		}
	}()
	SetBuilder(b)
}

type nilRegistryBuilder struct{ apis.Builder }

func (nilRegistryBuilder) BuildRegistry(apis.Config, apis.Registry, any) apis.Registry { return nil }

func TestGenerate_Concurrent_With_SetConfig(t *testing.T) {
	resetDefault(t)

	type token struct {
		ID int `json:"id"`
	}
	if err := RegisterFor[token]("", []string{"id"}, nil); err != nil {
		t.Fatalf("RegisterFor: %v", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if _, err := Generate(token{ID: j}); err != nil {
					t.Errorf("Generate: %v", err)
					return
				}
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(cfgWith(4+(i%5), apis.MatchMode(i%3)))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}

// ---------------------- End-to-end tests ----------------------

type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Article struct {
	ID     int
	Title  string
	Body   string
	Author *Author
}

type PhotoArticle struct {
	Article
	PhotoURL string
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	return string(b)
}

func TestFacade_ArticleScenarios(t *testing.T) {
	resetDefault(t)

	if err := RegisterFor[Author]("", []string{"name", "email"}, nil); err != nil {
		t.Fatalf("Register Author: %v", err)
	}
	err := RegisterDefault(reflect.TypeOf(Article{}), []string{"id", "title", "body", "author"}, apis.Overrides{
		"author": func(v apis.View) (any, error) {
			return v.Generate(v.Formatee().(*Article).Author)
		},
	})
	if err != nil {
		t.Fatalf("Register Article: %v", err)
	}
	if err := Register(reflect.TypeOf(Article{}), "summary", []string{"id", "title"}, nil); err != nil {
		t.Fatalf("Register Article/summary: %v", err)
	}

	a := &Article{ID: 1, Title: "T", Body: "B", Author: &Author{Name: "Myles", Email: "myles@"}}
	out, err := Generate(a)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := `{"id":1,"title":"T","body":"B","author":{"name":"Myles","email":"myles@"}}`
	if got := mustJSON(t, out); got != want {
		t.Fatalf("Generate(article) = %s, want %s", got, want)
	}

	// Subtype without its own registration uses Article's.
	photo := &PhotoArticle{Article: Article{ID: 2, Title: "P"}, PhotoURL: "u"}
	out, err = GenerateIn("summary", []any{a, photo})
	if err != nil {
		t.Fatalf("GenerateIn(summary): %v", err)
	}
	if got := mustJSON(t, out); got != `[{"id":1,"title":"T"},{"id":2,"title":"P"}]` {
		t.Fatalf("GenerateIn(summary) = %s", got)
	}

	// Its own registration takes over.
	if err := RegisterFor[PhotoArticle]("summary", []string{"id", "title", "photoUrl"}, nil); err != nil {
		t.Fatalf("Register PhotoArticle: %v", err)
	}
	out, err = GenerateIn("summary", photo)
	if err != nil {
		t.Fatalf("GenerateIn(photo): %v", err)
	}
	if got := mustJSON(t, out); got != `{"id":2,"title":"P","photoUrl":"u"}` {
		t.Fatalf("GenerateIn(photo) = %s", got)
	}

	// Hash passthrough and unregistered context.
	in := map[string]any{"foo": "bar"}
	if out, err = Generate(in); err != nil || reflect.ValueOf(out).Pointer() != reflect.ValueOf(in).Pointer() {
		t.Fatalf("mapping passthrough: %v, %v", out, err)
	}
	if _, err = GenerateIn("brief", a); !errors.Is(err, apis.ErrUnregisteredContext) {
		t.Fatalf("GenerateIn(brief) error = %v, want ErrUnregisteredContext", err)
	}
}

func TestFacade_Declare(t *testing.T) {
	resetDefault(t)

	type Legacy struct{ Name string }
	type Modern struct{ Name string }
	if err := RegisterFor[Legacy]("", []string{"name"}, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := Generate(Modern{Name: "m"}); !errors.Is(err, apis.ErrUnregisteredContext) {
		t.Fatalf("Modern should not resolve before Declare, got %v", err)
	}
	if err := Declare(reflect.TypeOf(Modern{}), reflect.TypeOf(Legacy{})); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	out, err := Generate(Modern{Name: "m"})
	if err != nil {
		t.Fatalf("Generate after Declare: %v", err)
	}
	if v, _ := out.(*projection.Projection).Get("name"); v != "m" {
		t.Fatalf("name = %v", v)
	}
	if len(Hierarchy().Declarations()) == 0 {
		t.Fatalf("declaration not visible through Hierarchy()")
	}
}

func TestFacade_RegistrationsSurviveSetConfig(t *testing.T) {
	resetDefault(t)

	if err := RegisterFor[Author]("", []string{"name"}, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	SetConfig(config.NewConfig(config.WithMatchMode(apis.Fold)))
	if _, ok := Registry().Lookup(reflect.TypeOf(Author{}), ""); !ok {
		t.Fatalf("registration lost on SetConfig")
	}
	if _, err := Generate(Author{Name: "x"}); err != nil {
		t.Fatalf("Generate after SetConfig: %v", err)
	}
}

func TestFacade_SetLogger(t *testing.T) {
	resetDefault(t)
	defer resetDefault(t)

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	if err := RegisterFor[Author]("", []string{"name"}, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := Generate(&Author{Name: "x"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if logs.FilterMessage("attributes registered").Len() != 1 {
		t.Fatalf("registration not logged: %v", logs.All())
	}
	if logs.FilterMessage("resolved by lineage").Len() != 1 {
		t.Fatalf("resolution not logged: %v", logs.All())
	}
}

func TestFacade_ApplyManifest(t *testing.T) {
	resetDefault(t)

	type Note struct {
		Text string `json:"text"`
	}
	cat := naming.NewCatalog(Config())
	if err := cat.Register(reflect.TypeOf(Note{}), "notes.Note"); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	m, err := manifest.Parse([]byte("registrations:\n  - type: notes.Note\n    attributes: [text]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := ApplyManifest(m, cat, nil); err != nil {
		t.Fatalf("ApplyManifest: %v", err)
	}
	out, err := Generate(Note{Text: "hi"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := mustJSON(t, out); got != `{"text":"hi"}` {
		t.Fatalf("Generate(note) = %s", got)
	}
}
