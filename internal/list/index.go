package list

import (
	"context"
	"fmt"

	"github.com/mateconpizza/later/internal/store"
)

// Reindex records the given display order into per-item Index fields,
// 0-based. Only records whose position actually changed are written, so
// repeating a call with the same order performs no further writes. URLs in
// the order that are not stored are skipped; stored URLs missing from the
// order keep whatever index they had and surface as orphans on the next
// assemble.
func (s *Service) Reindex(ctx context.Context, displayOrder []string) error {
	if len(displayOrder) == 0 {
		return nil
	}

	ns, err := s.kv.Get(ctx, displayOrder...)
	if err != nil {
		return fmt.Errorf("reading records for reindex: %w", err)
	}

	changed := make(store.Namespace)
	pos := 0
	for _, url := range displayOrder {
		raw, ok := ns[url]
		if !ok {
			continue
		}
		it := decodeItem(url, raw)

		if !it.HasIndex() || *it.Index != pos {
			it.SetIndex(pos)
			enc, err := store.Marshal(it)
			if err != nil {
				return err
			}
			changed[url] = enc
		}
		pos++
	}

	if len(changed) == 0 {
		return nil
	}
	if err := s.kv.Set(ctx, changed); err != nil {
		return fmt.Errorf("writing reindexed records: %w", err)
	}

	return nil
}
