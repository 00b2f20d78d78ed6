package todo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapKV struct {
	values map[string]string
	err    error
}

func (m *mapKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func TestEncodeEmptyIsArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestEncodeFieldNames(t *testing.T) {
	data, err := Encode([]Item{{Key: 7, Text: "milk", Complete: true}, {Key: 8, Text: "eggs", Editing: true}})
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"key":7,"text":"milk","complete":true},{"key":8,"text":"eggs","complete":false,"editing":true}]`,
		string(data))
}

func TestDecodeMissingCompleteDefaultsFalse(t *testing.T) {
	items, err := Decode([]byte(`[{"key":1,"text":"a"}]`))
	require.NoError(t, err)
	assert.Equal(t, []Item{{Key: 1, Text: "a"}}, items)
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	items, err := Load(context.Background(), &mapKV{values: map[string]string{}})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoadNullIsEmpty(t *testing.T) {
	items, err := Load(context.Background(), &mapKV{values: map[string]string{StorageKey: "null"}})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(context.Background(), &mapKV{values: map[string]string{StorageKey: "{not json"}})
	assert.ErrorIs(t, err, ErrCorruptList)
}

func TestLoadReadError(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := Load(context.Background(), &mapKV{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestMalformedLoadLeavesListEmpty(t *testing.T) {
	l := NewList(FilterAll, nil, nil)
	l.BeginLoad()

	l.Loaded(Load(context.Background(), &mapKV{values: map[string]string{StorageKey: "[{"}}))

	assert.False(t, l.Loading())
	assert.Empty(t, l.Items())
}
