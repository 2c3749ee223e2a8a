package quizzes_test

import (
	"context"
	"net/http"
	"reflect"
	"sync"
	"testing"

	uierrors "github.com/dalemusser/quizhub/internal/app/features/errors"
	"github.com/dalemusser/quizhub/internal/app/features/quizzes"
	"github.com/dalemusser/quizhub/internal/app/policy/ownerpolicy"
	quizstore "github.com/dalemusser/quizhub/internal/app/store/quizzes"
	"github.com/dalemusser/quizhub/internal/app/system/limits"
	"github.com/dalemusser/quizhub/internal/app/system/methodoverride"
	"github.com/dalemusser/quizhub/internal/domain/models"
	"github.com/dalemusser/quizhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeQuizzes mirrors quizstore's owner-scoped write semantics in memory.
type fakeQuizzes struct {
	mu      sync.Mutex
	quizzes map[primitive.ObjectID]models.Quiz
	calls   int
}

func newFakeQuizzes() *fakeQuizzes {
	return &fakeQuizzes{quizzes: map[primitive.ObjectID]models.Quiz{}}
}

func (f *fakeQuizzes) add(q models.Quiz) models.Quiz {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	f.quizzes[q.ID] = q
	return q
}

func (f *fakeQuizzes) get(id primitive.ObjectID) models.Quiz {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quizzes[id]
}

func (f *fakeQuizzes) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeQuizzes) ListByCreator(_ context.Context, creatorID primitive.ObjectID) ([]models.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := []models.Quiz{}
	for _, q := range f.quizzes {
		if q.CreatorID == creatorID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuizzes) GetByID(_ context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	q, ok := f.quizzes[id]
	if !ok {
		return nil, quizstore.ErrNotFound
	}
	q.Questions = append([]models.Question(nil), q.Questions...)
	return &q, nil
}

func (f *fakeQuizzes) owned(creatorID, quizID primitive.ObjectID) (models.Quiz, bool) {
	q, ok := f.quizzes[quizID]
	return q, ok && q.CreatorID == creatorID
}

func (f *fakeQuizzes) Update(_ context.Context, creatorID, quizID primitive.ObjectID, upd quizstore.Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	q, ok := f.owned(creatorID, quizID)
	if !ok {
		return quizstore.ErrNotFound
	}
	q.Title, q.Description, q.Image, q.Category, q.Questions = upd.Title, upd.Description, upd.Image, upd.Category, upd.Questions
	if upd.IsPublic != nil {
		q.IsPublic = *upd.IsPublic
	}
	f.quizzes[quizID] = q
	return nil
}

func (f *fakeQuizzes) Delete(_ context.Context, creatorID, quizID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.owned(creatorID, quizID); !ok {
		return quizstore.ErrNotFound
	}
	delete(f.quizzes, quizID)
	return nil
}

func (f *fakeQuizzes) SetVisibility(_ context.Context, creatorID, quizID primitive.ObjectID, public bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	q, ok := f.owned(creatorID, quizID)
	if !ok {
		return quizstore.ErrNotFound
	}
	q.IsPublic = public
	f.quizzes[quizID] = q
	return nil
}

func (f *fakeQuizzes) ToggleVisibility(_ context.Context, creatorID, quizID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	q, ok := f.owned(creatorID, quizID)
	if !ok {
		return false, quizstore.ErrNotFound
	}
	q.IsPublic = !q.IsPublic
	f.quizzes[quizID] = q
	return q.IsPublic, nil
}

type harness struct {
	store  *fakeQuizzes
	views  *testutil.Renderer
	router http.Handler
	owner  testutil.TestUser
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()
	store := newFakeQuizzes()
	views := &testutil.Renderer{}
	errLog := uierrors.NewErrorLogger(logger, views)
	h := quizzes.NewHandler(store, views, errLog, logger)

	r := chi.NewRouter()
	r.Use(limits.Body)
	r.Use(methodoverride.Middleware)
	r.Route("/users/{id}", func(pr chi.Router) {
		pr.Use(ownerpolicy.RequireOwner(errLog, "id"))
		pr.Mount("/quizzes", quizzes.Routes(h))
	})

	return &harness{
		store:  store,
		views:  views,
		router: r,
		owner:  testutil.NewUser("Owner", "owner@example.com"),
	}
}

func (hs *harness) ownerOID() primitive.ObjectID {
	oid, _ := primitive.ObjectIDFromHex(hs.owner.ID)
	return oid
}

func (hs *harness) serve(req *http.Request, as *testutil.TestUser) *testutil.ResponseRecorder {
	req.Header.Set("Accept", "text/html")
	if as != nil {
		req = testutil.WithUser(req, *as)
	}
	rec := testutil.NewRecorder()
	hs.router.ServeHTTP(rec, req)
	return rec
}

func (hs *harness) base() string {
	return "/users/" + hs.owner.ID + "/quizzes"
}

// field reads an exported field path from a view model.
func field(t *testing.T, data any, path ...string) reflect.Value {
	t.Helper()
	v := reflect.ValueOf(data)
	for _, name := range path {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		v = v.FieldByName(name)
		if !v.IsValid() {
			t.Fatalf("view data has no field %q", name)
		}
	}
	return v
}

func TestList_EmptyRenders(t *testing.T) {
	hs := newHarness(t)

	rec := hs.serve(testutil.NewRequest(http.MethodGet, hs.base()), &hs.owner)
	rec.AssertStatus(t, http.StatusOK)

	last := hs.views.Last()
	if last.Name != "user_quizzes" {
		t.Fatalf("view: got %q", last.Name)
	}
	rows := field(t, last.Data, "Quizzes")
	if rows.IsNil() || rows.Len() != 0 {
		t.Errorf("expected empty non-nil quiz list, got %v", rows)
	}
}

func TestList_OnlyOwnQuizzes(t *testing.T) {
	hs := newHarness(t)
	hs.store.add(models.Quiz{CreatorID: hs.ownerOID(), Title: "Mine"})
	hs.store.add(models.Quiz{CreatorID: primitive.NewObjectID(), Title: "Theirs"})

	hs.serve(testutil.NewRequest(http.MethodGet, hs.base()), &hs.owner)

	rows := field(t, hs.views.Last().Data, "Quizzes")
	if rows.Len() != 1 || rows.Index(0).FieldByName("Title").String() != "Mine" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestNew_Outcomes(t *testing.T) {
	hs := newHarness(t)
	other := testutil.NewUser("Other", "other@example.com")

	tests := []struct {
		name   string
		as     *testutil.TestUser
		status int
		view   string
	}{
		{"owner", &hs.owner, http.StatusOK, "new_quiz"},
		{"other user", &other, http.StatusForbidden, "error"},
		{"anonymous", nil, http.StatusUnauthorized, "user_login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := hs.serve(testutil.NewRequest(http.MethodGet, hs.base()+"/new"), tt.as)
			rec.AssertStatus(t, tt.status)
			if got := hs.views.Last().Name; got != tt.view {
				t.Errorf("view: got %q, want %q", got, tt.view)
			}
		})
	}
}

func TestOtherUserPath_NoStoreCall(t *testing.T) {
	hs := newHarness(t)
	q := hs.store.add(models.Quiz{CreatorID: hs.ownerOID(), Title: "Q"})
	other := testutil.NewUser("Other", "other@example.com")

	targets := []struct{ method, path, body string }{
		{http.MethodGet, hs.base(), ""},
		{http.MethodGet, hs.base() + "/" + q.ID.Hex(), ""},
		{http.MethodGet, hs.base() + "/" + q.ID.Hex() + "/edit", ""},
		{http.MethodPost, hs.base() + "/" + q.ID.Hex() + "/edit", "_method=PUT"},
		{http.MethodPost, hs.base() + "/" + q.ID.Hex(), "_method=PUT&title=X"},
		{http.MethodPost, hs.base() + "/" + q.ID.Hex() + "/delete", "_method=DELETE"},
	}
	for _, tt := range targets {
		req := testutil.NewFormRequest(tt.method, tt.path, tt.body)
		rec := hs.serve(req, &other)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: got %d, want 403", tt.method, tt.path, rec.Code)
		}
	}
	if hs.store.callCount() != 0 {
		t.Errorf("expected no store calls, got %d", hs.store.callCount())
	}
}

func TestView_QuizOwnedByAnotherUser(t *testing.T) {
	hs := newHarness(t)
	foreign := hs.store.add(models.Quiz{CreatorID: primitive.NewObjectID(), Title: "Theirs"})

	rec := hs.serve(testutil.NewRequest(http.MethodGet, hs.base()+"/"+foreign.ID.Hex()), &hs.owner)
	rec.AssertStatus(t, http.StatusForbidden)

	// Writes are owner-scoped in the store and report not found.
	rec = hs.serve(testutil.NewFormRequest(http.MethodPost, hs.base()+"/"+foreign.ID.Hex()+"/delete", "_method=DELETE"), &hs.owner)
	rec.AssertStatus(t, http.StatusNotFound)
	if hs.store.get(foreign.ID).Title != "Theirs" {
		t.Error("foreign quiz should be untouched")
	}
}

func TestView_NotFoundAndMalformed(t *testing.T) {
	hs := newHarness(t)

	rec := hs.serve(testutil.NewRequest(http.MethodGet, hs.base()+"/"+primitive.NewObjectID().Hex()), &hs.owner)
	rec.AssertStatus(t, http.StatusNotFound)

	rec = hs.serve(testutil.NewRequest(http.MethodGet, hs.base()+"/not-an-id"), &hs.owner)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestEdit_QuestionsSorted(t *testing.T) {
	hs := newHarness(t)
	q := hs.store.add(models.Quiz{CreatorID: hs.ownerOID(), Title: "Sort", Questions: testutil.SampleQuestions()})

	rec := hs.serve(testutil.NewRequest(http.MethodGet, hs.base()+"/"+q.ID.Hex()+"/edit"), &hs.owner)
	rec.AssertStatus(t, http.StatusOK)

	last := hs.views.Last()
	if last.Name != "user_quiz_edit" {
		t.Fatalf("view: got %q", last.Name)
	}
	qs := field(t, last.Data, "Quiz", "Questions").Interface().([]models.Question)
	if len(qs) != 2 || qs[0].ID != 1 || qs[1].ID != 2 {
		t.Errorf("expected questions sorted by ID, got %+v", qs)
	}
}

func TestVisibility_ToggleAndSet(t *testing.T) {
	hs := newHarness(t)
	q := hs.store.add(models.Quiz{CreatorID: hs.ownerOID(), Title: "Vis"})
	target := hs.base() + "/" + q.ID.Hex() + "/edit"

	put := func(body string) *testutil.ResponseRecorder {
		req := testutil.NewFormRequest(http.MethodPost, target, "_method=PUT"+body)
		req.Header.Set("Referer", "http://example.com"+hs.base())
		return hs.serve(req, &hs.owner)
	}

	rec := put("")
	rec.AssertRedirect(t, hs.base())
	if !hs.store.get(q.ID).IsPublic {
		t.Fatal("expected first toggle to make quiz public")
	}
	put("")
	if hs.store.get(q.ID).IsPublic {
		t.Fatal("expected second toggle to restore private")
	}

	put("&visibility=public")
	put("&visibility=public")
	if !hs.store.get(q.ID).IsPublic {
		t.Error("expected explicit visibility=public to be idempotent")
	}

	rec = put("&visibility=sideways")
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestVisibility_ForeignRefererFallsBack(t *testing.T) {
	hs := newHarness(t)
	q := hs.store.add(models.Quiz{CreatorID: hs.ownerOID(), Title: "Vis"})
	target := hs.base() + "/" + q.ID.Hex() + "/edit"

	req := testutil.NewFormRequest(http.MethodPost, target, "_method=PUT")
	req.Header.Set("Referer", "https://evil.example/phish")
	rec := hs.serve(req, &hs.owner)
	rec.AssertRedirect(t, target)
}

func TestUpdate_ParsesLegacyForm(t *testing.T) {
	hs := newHarness(t)
	q := hs.store.add(models.Quiz{CreatorID: hs.ownerOID(), Title: "Before"})
	target := hs.base() + "/" + q.ID.Hex()

	body := "_method=PUT&title=T&Q1=stem&Q1A0=opt0&Q1A1=opt1&Q_1=opt1"
	rec := hs.serve(testutil.NewFormRequest(http.MethodPost, target, body), &hs.owner)
	rec.AssertRedirect(t, target)

	got := hs.store.get(q.ID)
	want := []models.Question{{ID: 1, Text: "stem", Answers: []models.Answer{
		{Index: 0, Text: "opt0"},
		{Index: 1, Text: "opt1", IsCorrect: true},
	}}}
	if got.Title != "T" || !reflect.DeepEqual(got.Questions, want) {
		t.Errorf("unexpected quiz after update: %+v", got)
	}
}

func TestUpdate_BadInput(t *testing.T) {
	hs := newHarness(t)
	q := hs.store.add(models.Quiz{CreatorID: hs.ownerOID(), Title: "Keep"})
	target := hs.base() + "/" + q.ID.Hex()

	for _, body := range []string{
		"_method=PUT&title=T&mystery=1",
		"_method=PUT&title=T&Q1=s&Q1A0=a&Q_1=nothing",
		"_method=PUT&title=",
	} {
		rec := hs.serve(testutil.NewFormRequest(http.MethodPost, target, body), &hs.owner)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: got %d, want 400", body, rec.Code)
		}
	}
	if hs.store.get(q.ID).Title != "Keep" {
		t.Error("rejected edits must not be persisted")
	}
}

func TestDelete_RedirectsToList(t *testing.T) {
	hs := newHarness(t)
	q := hs.store.add(models.Quiz{CreatorID: hs.ownerOID(), Title: "Bye"})

	rec := hs.serve(testutil.NewFormRequest(http.MethodPost, hs.base()+"/"+q.ID.Hex()+"/delete", "_method=DELETE"), &hs.owner)
	rec.AssertRedirect(t, hs.base())

	if _, err := hs.store.GetByID(context.Background(), q.ID); err != quizstore.ErrNotFound {
		t.Errorf("expected quiz deleted, got %v", err)
	}
}
