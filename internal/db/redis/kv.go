package redis

import (
	"context"

	"github.com/kailas-cloud/docchat/internal/db"
)

// MGet reads keys with a single MGET. Nil replies stay nil in the result.
func (s *Store) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	msgs, err := s.client.Do(ctx, s.client.B().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpMGet, Keys: len(keys), Err: err}
	}

	out := make([][]byte, len(keys))
	for i, m := range msgs {
		if i == len(out) {
			break
		}
		if m.IsNil() {
			continue
		}
		data, err := m.AsBytes()
		if err != nil {
			return nil, &db.Error{Op: db.OpMGet, Keys: len(keys), Err: err}
		}
		out[i] = data
	}
	return out, nil
}
