package handlers

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows drives the row-scanning helpers without a live database.
type fakeRows struct {
	rows    [][]string
	idx     int
	scanErr error
	rowsErr error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.rowsErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.rows[r.idx-1]
	for i, d := range dest {
		*(d.(*string)) = row[i]
	}
	return nil
}

// The sweep query must only name columns the media table actually defines;
// a renamed or misspelled column would make every nightly run fail and leave
// orphaned files on disk forever.
func TestMediaSweepQueryNamesRealColumns(t *testing.T) {
	mediaColumns := map[string]bool{
		"id": true, "post_id": true, "type": true, "storage_path": true,
		"thumbnail_path": true, "width": true, "height": true,
		"latitude": true, "longitude": true, "captured_at": true,
		"exif": true, "display_order": true, "created_at": true,
	}

	m := regexp.MustCompile(`(?i)SELECT(.+)FROM`).FindStringSubmatch(mediaSweepQuery)
	if m == nil {
		t.Fatalf("could not find a select list in %q", mediaSweepQuery)
	}
	for _, ident := range regexp.MustCompile(`[a-z_]+`).FindAllString(strings.ToLower(m[1]), -1) {
		if ident == "coalesce" {
			continue
		}
		if !mediaColumns[ident] {
			t.Errorf("media sweep query selects %q, which is not a media column", ident)
		}
	}
}

func TestCollectMediaPathsIndexesByBaseName(t *testing.T) {
	rows := &fakeRows{rows: [][]string{
		{"/media/abc.jpg", "/media/abc_thumb.jpg"},
		{"/media/def.mp4", ""},
	}}

	referenced, err := collectMediaPaths(rows)
	if err != nil {
		t.Fatalf("collectMediaPaths returned error: %v", err)
	}

	for _, want := range []string{"abc.jpg", "abc_thumb.jpg", "def.mp4"} {
		if !referenced[want] {
			t.Errorf("%s not marked as referenced", want)
		}
	}
	if referenced[""] {
		t.Error("empty thumbnail path must not mark the empty name as referenced")
	}
}

func TestCollectMediaPathsSurfacesRowError(t *testing.T) {
	boom := errors.New("connection reset")
	rows := &fakeRows{rows: [][]string{{"/media/abc.jpg", ""}}, rowsErr: boom}

	if _, err := collectMediaPaths(rows); !errors.Is(err, boom) {
		t.Errorf("collectMediaPaths error = %v, want %v", err, boom)
	}
}

func TestScanUIDs(t *testing.T) {
	rows := &fakeRows{rows: [][]string{{"user-1"}, {"user-2"}}}

	uids, err := scanUIDs(rows)
	if err != nil {
		t.Fatalf("scanUIDs returned error: %v", err)
	}
	if len(uids) != 2 || uids[0] != "user-1" || uids[1] != "user-2" {
		t.Errorf("scanUIDs = %v, want [user-1 user-2]", uids)
	}
}

func TestScanUIDsSurfacesRowError(t *testing.T) {
	boom := errors.New("connection reset")
	rows := &fakeRows{rows: [][]string{{"user-1"}}, rowsErr: boom}

	if _, err := scanUIDs(rows); !errors.Is(err, boom) {
		t.Errorf("scanUIDs error = %v, want %v", err, boom)
	}
}
