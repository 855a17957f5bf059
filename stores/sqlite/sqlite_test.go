// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/mdhender/tabtxt/model"
	store "github.com/mdhender/tabtxt/stores/sqlite"
	"github.com/mdhender/tabtxt/web/auth"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore()
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestDataset(t *testing.T, s *store.Store, name string) int64 {
	t.Helper()
	id, err := s.InsertDataset(context.Background(), &model.Dataset{
		Name:      name,
		SHA256:    fmt.Sprintf("sha-%s-%d", name, time.Now().UnixNano()),
		Mime:      "text/csv",
		FsPath:    "batches/1/" + name,
		CreatedAt: time.Now().UTC(),
		Delimiter: ",",
		Comment:   "#",
		HasHeader: true,
		Trim:      true,
	})
	if err != nil {
		t.Fatalf("insert dataset: %v", err)
	}
	return id
}

func TestDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := insertTestDataset(t, s, "round-trip.csv")

	ds, err := s.GetDataset(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ds == nil {
		t.Fatalf("dataset %d not found", id)
	}
	if got, want := ds.Name, "round-trip.csv"; got != want {
		t.Fatalf("name = %q, want %q", got, want)
	}
	if !ds.HasHeader || !ds.Trim {
		t.Fatalf("dialect flags lost: %+v", ds)
	}

	same, err := s.GetDatasetBySHA256(ctx, ds.SHA256)
	if err != nil {
		t.Fatalf("get by sha: %v", err)
	}
	if same == nil || same.ID != id {
		t.Fatalf("get by sha = %v, want id %d", same, id)
	}

	missing, err := s.GetDataset(ctx, 1<<40)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("get missing = %v, want nil", missing)
	}
}

func TestDataRowsPaging(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := insertTestDataset(t, s, "paging.csv")
	for n := 1; n <= 5; n++ {
		_, err := s.InsertDataRow(ctx, &model.DataRow{
			DatasetID: id,
			RowNo:     n,
			Fields:    []string{fmt.Sprintf("row%d", n), ""},
		})
		if err != nil {
			t.Fatalf("insert row %d: %v", n, err)
		}
	}

	rows, err := s.DataRowsByDataset(ctx, id, 2, 2)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("page = %d rows, want 2", len(rows))
	}
	if got, want := rows[0].RowNo, 3; got != want {
		t.Fatalf("first row no = %d, want %d", got, want)
	}
	// ragged fields round-trip through the JSON column
	if got, want := rows[0].Fields, []string{"row3", ""}; !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}

	all, err := s.DataRowsByDataset(ctx, id, 0, 0)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("all = %d rows, want 5", len(all))
	}
}

func TestDeleteDataRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := insertTestDataset(t, s, "reparse.csv")
	if _, err := s.InsertDataRow(ctx, &model.DataRow{DatasetID: id, RowNo: 1, Fields: []string{"x"}}); err != nil {
		t.Fatalf("insert row: %v", err)
	}
	if _, err := s.InsertColumn(ctx, &model.Column{DatasetID: id, Position: 0, Name: "x"}); err != nil {
		t.Fatalf("insert column: %v", err)
	}

	if err := s.DeleteDataRows(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, err := s.DataRowsByDataset(ctx, id, 0, 0)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0 after delete", len(rows))
	}
	columns, err := s.ColumnsByDataset(ctx, id)
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(columns) != 0 {
		t.Fatalf("columns = %d, want 0 after delete", len(columns))
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	hash, err := auth.HashPasswordWithCost("hunter2", auth.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	err = s.CreateUser(ctx, &model.User{
		Handle:       "ottomata",
		UserName:     "Otto",
		PasswordHash: hash,
		Roles:        []string{"active", "admin"},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	user, ok := s.Authenticate(ctx, "ottomata", "hunter2")
	if !ok {
		t.Fatalf("authenticate rejected the right password")
	}
	if got, want := user.UserName, "Otto"; got != want {
		t.Fatalf("user name = %q, want %q", got, want)
	}

	if _, ok := s.Authenticate(ctx, "ottomata", "wrong"); ok {
		t.Fatalf("authenticate accepted the wrong password")
	}
	if _, ok := s.Authenticate(ctx, "nobody", "hunter2"); ok {
		t.Fatalf("authenticate accepted an unknown user")
	}

	isAdmin, err := s.IsUserAdmin(ctx, "ottomata")
	if err != nil {
		t.Fatalf("is admin: %v", err)
	}
	if !isAdmin {
		t.Fatalf("admin role lost")
	}
}
