package student

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anuj-patel/student-records/internal/storage/memory"
	"github.com/anuj-patel/student-records/internal/types"
	"github.com/anuj-patel/student-records/internal/utils/response"
)

// newTestServer builds a router backed by the in-memory store — the
// handlers see only the Storage interface, so this exercises exactly
// the code that runs against sqlite or postgres in production.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	router := http.NewServeMux()
	RegisterRoutes(router, memory.New())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body string) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func createStudent(t *testing.T, srv *httptest.Server, body string) types.Student {
	t.Helper()

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/students", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create returned %d: %s", resp.StatusCode, raw)
	}

	var created types.Student
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("decode created student: %v", err)
	}
	return created
}

func TestCreateReturnsFullRecordWithID(t *testing.T) {
	srv := newTestServer(t)

	created := createStudent(t, srv,
		`{"name": "Ali Khan", "email": "ali@example.com", "age": 20}`)

	if created.ID != 1 {
		t.Errorf("server-assigned id = %d, want 1", created.ID)
	}
	if created.Name != "Ali Khan" || created.Email != "ali@example.com" || created.Age != 20 {
		t.Errorf("created record %+v does not echo the payload", created)
	}

	// Fetch by the returned id — same object comes back.
	resp, raw := doJSON(t, http.MethodGet, fmt.Sprintf("%s/students/%d", srv.URL, created.ID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get returned %d: %s", resp.StatusCode, raw)
	}
	var got types.Student
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode fetched student: %v", err)
	}
	if got != created {
		t.Errorf("fetched %+v, want %+v", got, created)
	}
}

func TestCreateRejectsBadPayloads(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty body", "", "request body is empty"},
		{"malformed json", `{"name": `, ""},
		{"missing fields", `{"name": "Ali Khan"}`, "field Email is required"},
		{"bad email", `{"name": "Ali Khan", "email": "not-an-email", "age": 20}`,
			"field Email must be a valid email address"},
		{"negative age", `{"name": "Ali Khan", "email": "ali@example.com", "age": -1}`,
			"field Age must be greater than 0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doJSON(t, http.MethodPost, srv.URL+"/students", tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", resp.StatusCode, raw)
			}

			var body response.Response
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Status != response.StatusError {
				t.Errorf("status field = %q, want %q", body.Status, response.StatusError)
			}
			if tc.wantErr != "" && !strings.Contains(body.Error, tc.wantErr) {
				t.Errorf("error %q does not contain %q", body.Error, tc.wantErr)
			}
		})
	}
}

func TestGetMissingStudentIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/students/999", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var body response.Response
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != "no student found with id: 999" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestNonIntegerIDIs400(t *testing.T) {
	srv := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp, _ := doJSON(t, method, srv.URL+"/students/abc", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s /students/abc = %d, want 400", method, resp.StatusCode)
		}
	}
}

func TestUpdateReplacesAllFields(t *testing.T) {
	srv := newTestServer(t)

	created := createStudent(t, srv,
		`{"name": "Ali Khan", "email": "ali@example.com", "age": 20}`)

	resp, raw := doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/students/%d", srv.URL, created.ID),
		`{"name": "Ali K.", "email": "ali.k@example.com", "age": 21}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update returned %d: %s", resp.StatusCode, raw)
	}

	var updated types.Student
	if err := json.Unmarshal(raw, &updated); err != nil {
		t.Fatalf("decode updated student: %v", err)
	}
	want := types.Student{ID: created.ID, Name: "Ali K.", Email: "ali.k@example.com", Age: 21}
	if updated != want {
		t.Errorf("updated = %+v, want %+v", updated, want)
	}

	// A follow-up GET reflects exactly the new values, not a merge.
	_, raw = doJSON(t, http.MethodGet, fmt.Sprintf("%s/students/%d", srv.URL, created.ID), "")
	var got types.Student
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode fetched student: %v", err)
	}
	if got != want {
		t.Errorf("after update fetched %+v, want %+v", got, want)
	}
}

func TestUpdateMissingStudentIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/students/999",
		`{"name": "Nobody", "email": "nobody@example.com", "age": 30}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteThenGetIs404(t *testing.T) {
	srv := newTestServer(t)

	created := createStudent(t, srv,
		`{"name": "Ali Khan", "email": "ali@example.com", "age": 20}`)

	resp, raw := doJSON(t, http.MethodDelete,
		fmt.Sprintf("%s/students/%d", srv.URL, created.ID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete returned %d: %s", resp.StatusCode, raw)
	}
	var confirmation map[string]string
	if err := json.Unmarshal(raw, &confirmation); err != nil {
		t.Fatalf("decode confirmation: %v", err)
	}
	if confirmation["status"] != "deleted" {
		t.Errorf("confirmation = %v", confirmation)
	}

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/students/%d", srv.URL, created.ID), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/students/%d", srv.URL, created.ID), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", resp.StatusCode)
	}
}

func TestListAfterNCreatesReturnsExactlyN(t *testing.T) {
	srv := newTestServer(t)

	// Empty store encodes as [], never null.
	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/students", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list returned %d", resp.StatusCode)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("empty list encoded as %q, want []", raw)
	}

	const n = 3
	for i := 0; i < n; i++ {
		createStudent(t, srv, fmt.Sprintf(
			`{"name": "Student %d", "email": "s%d@example.com", "age": %d}`, i, i, 20+i))
	}

	_, raw = doJSON(t, http.MethodGet, srv.URL+"/students", "")
	var students []types.Student
	if err := json.Unmarshal(raw, &students); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(students) != n {
		t.Fatalf("listed %d records, want %d", len(students), n)
	}
}
