package crud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"petlove-admin/internal/upstream"
)

type widget struct {
	ID     int64  `json:"id"`
	Name   string `json:"name" validate:"required"`
	Active bool   `json:"active"`
}

func widgetConfig() Config[widget] {
	return Config[widget]{
		Name: "widgets",
		Endpoints: Endpoints{
			List:         "/widgets",
			Create:       "/widgets",
			Update:       "/widgets/:id",
			Delete:       "/widgets/:id",
			ToggleStatus: "/widgets/:id/status",
		},
		ID:        func(w *widget) int64 { return w.ID },
		Active:    func(w *widget) bool { return w.Active },
		SetActive: func(w *widget, v bool) { w.Active = v },
		SearchFields: func(w widget) []string {
			return []string{w.Name}
		},
		Mutable: true,
	}
}

func newTestController(t *testing.T, handler http.HandlerFunc) (*Controller[widget], *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := upstream.New(srv.URL, 5*time.Second, zap.NewNop())
	return NewController(widgetConfig(), api, zap.NewNop()), srv
}

func listBody(ws ...widget) []byte {
	b, _ := json.Marshal(map[string]any{"success": true, "data": ws})
	return b
}

func TestLoadSupersededIsNotCommitted(t *testing.T) {
	var n int32
	release := make(chan struct{})
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			<-release
			w.Write(listBody(widget{ID: 1, Name: "stale", Active: true}))
			return
		}
		w.Write(listBody(widget{ID: 2, Name: "fresh", Active: true}))
	})

	first := make(chan error, 1)
	go func() { first <- ctrl.Load(context.Background(), "") }()

	// wait until the first request is in flight
	for atomic.LoadInt32(&n) == 0 {
		time.Sleep(5 * time.Millisecond)
	}

	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("second load: %v", err)
	}
	close(release)

	if err := <-first; !errors.Is(err, ErrCancelled) {
		t.Fatalf("first load error = %v, want ErrCancelled", err)
	}
	recs := ctrl.Records()
	if len(recs) != 1 || recs[0].Name != "fresh" {
		t.Fatalf("records = %+v, want only the fresh row", recs)
	}
}

func TestLoadFailureKeepsPreviousRecords(t *testing.T) {
	var n int32
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			w.Write(listBody(
				widget{ID: 1, Name: "uno", Active: true},
				widget{ID: 2, Name: "dos", Active: true},
			))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("first load: %v", err)
	}

	err := ctrl.Load(context.Background(), "")
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("second load error = %v, want ErrLoadFailed", err)
	}
	if got := len(ctrl.Records()); got != 2 {
		t.Fatalf("records after failed reload = %d, want 2", got)
	}
}

func TestCreateValidationIssuesNoRequest(t *testing.T) {
	var n int32
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		w.Write(listBody())
	})

	_, err := ctrl.Create(context.Background(), "", &widget{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if _, ok := verr.Fields["name"]; !ok {
		t.Fatalf("fields = %v, want a name entry", verr.Fields)
	}
	if atomic.LoadInt32(&n) != 0 {
		t.Fatalf("requests issued = %d, want 0", n)
	}
}

func TestCreateSplicesReturnedRecord(t *testing.T) {
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listBody(widget{ID: 1, Name: "uno", Active: true}))
		case http.MethodPost:
			b, _ := json.Marshal(map[string]any{
				"success": true,
				"data":    widget{ID: 9, Name: "nueve", Active: true},
			})
			w.Write(b)
		}
	})

	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	created, err := ctrl.Create(context.Background(), "", &widget{Name: "nueve", Active: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 9 {
		t.Fatalf("created id = %d, want 9", created.ID)
	}
	if got := len(ctrl.Records()); got != 2 {
		t.Fatalf("records = %d, want 2", got)
	}
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	var n int32
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		w.Write(listBody())
	})

	err := ctrl.Remove(context.Background(), "", 1, false)
	if !errors.Is(err, ErrConfirmRequired) {
		t.Fatalf("error = %v, want ErrConfirmRequired", err)
	}
	if atomic.LoadInt32(&n) != 0 {
		t.Fatalf("requests issued = %d, want 0", n)
	}
}

func TestRemoveConflictKeepsRecordAndClearsBusy(t *testing.T) {
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listBody(widget{ID: 1, Name: "uno", Active: true}))
		case http.MethodDelete:
			w.WriteHeader(http.StatusConflict)
			b, _ := json.Marshal(map[string]any{"success": false, "message": "record in use"})
			w.Write(b)
		}
	})

	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	err := ctrl.Remove(context.Background(), "", 1, true)
	if !errors.Is(err, ErrConflictOnDelete) {
		t.Fatalf("error = %v, want ErrConflictOnDelete", err)
	}
	var rerr *RemoteError
	if !errors.As(err, &rerr) || rerr.Message != "record in use" {
		t.Fatalf("error = %v, want the upstream message kept verbatim", err)
	}
	if got := len(ctrl.Records()); got != 1 {
		t.Fatalf("records = %d, want the row kept", got)
	}
	if ctrl.RowBusy(1) {
		t.Fatal("row still busy after the conflict resolved")
	}
}

func TestRemoveSuccessSplicesRow(t *testing.T) {
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listBody(
				widget{ID: 1, Name: "uno", Active: true},
				widget{ID: 2, Name: "dos", Active: true},
			))
		case http.MethodDelete:
			b, _ := json.Marshal(map[string]any{"success": true})
			w.Write(b)
		}
	})

	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ctrl.Remove(context.Background(), "", 1, true); err != nil {
		t.Fatalf("remove: %v", err)
	}
	recs := ctrl.Records()
	if len(recs) != 1 || recs[0].ID != 2 {
		t.Fatalf("records = %+v, want only id 2", recs)
	}
}

func TestToggleStatusReconcilesInPlace(t *testing.T) {
	var patched atomic.Value
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listBody(widget{ID: 1, Name: "uno", Active: true}))
		case http.MethodPatch:
			var body map[string]bool
			_ = json.NewDecoder(r.Body).Decode(&body)
			patched.Store(body["active"])
			b, _ := json.Marshal(map[string]any{"success": true})
			w.Write(b)
		}
	})

	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ctrl.ToggleStatus(context.Background(), "", 1, false, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if v, _ := patched.Load().(bool); v {
		t.Fatal("patch body carried active=true, want false")
	}
	rec, err := ctrl.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Active {
		t.Fatal("record still active after deactivation")
	}
}

func TestEditBlockedWhenInactive(t *testing.T) {
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(listBody(widget{ID: 1, Name: "uno", Active: false}))
	})
	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := ctrl.BeginEdit(1); !errors.Is(err, ErrInactiveEdit) {
		t.Fatalf("begin edit error = %v, want ErrInactiveEdit", err)
	}
	if ctrl.Draft() != nil {
		t.Fatal("draft opened for an inactive record")
	}
	if _, err := ctrl.Update(context.Background(), "", 1, &widget{ID: 1, Name: "uno"}); !errors.Is(err, ErrInactiveEdit) {
		t.Fatalf("update error = %v, want ErrInactiveEdit", err)
	}
}

func TestSubmitDraftFillsErrorsAndSurvives(t *testing.T) {
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(listBody())
	})

	d := ctrl.BeginCreate()
	d.Record = widget{} // name missing

	_, err := ctrl.SubmitDraft(context.Background(), "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if got := ctrl.Draft(); got == nil || len(got.Errors) == 0 {
		t.Fatalf("draft = %+v, want it kept with errors filled", got)
	}
}

func TestViewClampsPageAfterShrink(t *testing.T) {
	var n int32
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			ws := make([]widget, 25)
			for i := range ws {
				ws[i] = widget{ID: int64(i + 1), Name: "w", Active: true}
			}
			w.Write(listBody(ws...))
			return
		}
		w.Write(listBody(widget{ID: 1, Name: "w", Active: true}))
	})

	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	v := ctrl.View("", 3, 10)
	if v.Page != 3 || len(v.Items) != 5 {
		t.Fatalf("page %d with %d items, want page 3 with 5", v.Page, len(v.Items))
	}

	if err := ctrl.Load(context.Background(), ""); err != nil {
		t.Fatalf("reload: %v", err)
	}
	v = ctrl.View("", 0, 10)
	if v.Page != 1 || v.TotalPages != 1 {
		t.Fatalf("page %d of %d, want clamped to 1 of 1", v.Page, v.TotalPages)
	}
}
