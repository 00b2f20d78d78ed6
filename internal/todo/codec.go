package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// StorageKey is the key the full list is stored under.
const StorageKey = "items"

var ErrCorruptList = errors.New("stored list is corrupt")

type Getter interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

type Setter interface {
	Set(ctx context.Context, key, value string) error
}

// Encode serializes items as a JSON array. An empty list encodes as [].
func Encode(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

func Decode(data []byte) ([]Item, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []Item{}, nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptList, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Load reads the stored list. A list that was never saved loads as empty.
func Load(ctx context.Context, kv Getter) ([]Item, error) {
	raw, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", StorageKey, err)
	}
	if !ok {
		return []Item{}, nil
	}
	return Decode([]byte(raw))
}
