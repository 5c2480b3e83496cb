package models

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestJSONListScan(t *testing.T) {
	is := is.New(t)

	var headers JSONList[Header]
	is.NoErr(headers.Scan(`[{"key":"X-Token","value":"abc"}]`))
	is.Equal(headers, JSONList[Header]{{Key: "X-Token", Value: "abc"}})

	var ids JSONList[int64]
	is.NoErr(ids.Scan([]byte("[3,1,2]")))
	is.Equal(ids, JSONList[int64]{3, 1, 2})

	is.NoErr(ids.Scan(nil))
	is.Equal(len(ids), 0)

	is.True(ids.Scan(42) != nil)
	is.True(ids.Scan("{") != nil)
}

func TestJSONListValue(t *testing.T) {
	is := is.New(t)

	v, err := JSONList[string](nil).Value()
	is.NoErr(err)
	is.Equal(v, "[]")

	v, err = JSONList[string]{"task.create"}.Value()
	is.NoErr(err)
	is.Equal(v, `["task.create"]`)
}

func TestTaskPayloadOmitsNothing(t *testing.T) {
	is := is.New(t)
	bts, err := json.Marshal(Task{ID: 1, Name: "T"})
	is.NoErr(err)

	var m map[string]any
	is.NoErr(json.Unmarshal(bts, &m))
	for _, k := range []string{"id", "name", "description", "status", "user_id", "project_id", "billable_minutes", "due_date", "assignees"} {
		_, ok := m[k]
		is.True(ok) // every column is part of the payload
	}
	is.Equal(m["assignees"], []any{})
}

func TestUserPayloadHidesPassword(t *testing.T) {
	is := is.New(t)
	bts, err := json.Marshal(User{ID: 1, Email: "a@b.c", PasswordHash: "secret"})
	is.NoErr(err)
	var m map[string]any
	is.NoErr(json.Unmarshal(bts, &m))
	_, ok := m["password_hash"]
	is.True(!ok)
}
