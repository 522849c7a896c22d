package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lsta/pai/internal/panel"
)

// Repository 标签与状态持久化
type Repository struct {
	Pool *pgxpool.Pool
}

const upsertLabelSQL = `INSERT INTO element_labels (panel_serial, element, idx, key, label, props, updated_at)
               VALUES ($1,$2,$3,$4,$5,$6,NOW())
               ON CONFLICT (panel_serial, element, idx)
               DO UPDATE SET key=EXCLUDED.key, label=EXCLUDED.label, props=EXCLUDED.props, updated_at=NOW()`

func propsJSON(props map[string]any) ([]byte, error) {
	if props == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(props)
}

// UpsertLabel 写入或更新单个标签
func (r *Repository) UpsertLabel(ctx context.Context, serial, element string, l panel.Label) error {
	props, err := propsJSON(l.Props)
	if err != nil {
		return err
	}
	_, err = r.Pool.Exec(ctx, upsertLabelSQL, serial, element, l.ID, l.Key, l.Label, props)
	return err
}

// UpsertLabels 批量写入全部类别的标签
func (r *Repository) UpsertLabels(ctx context.Context, serial string, labels panel.Labels) error {
	batch := &pgx.Batch{}
	for element, entries := range labels {
		for _, l := range entries {
			props, err := propsJSON(l.Props)
			if err != nil {
				return fmt.Errorf("label %s/%d: %w", element, l.ID, err)
			}
			batch.Queue(upsertLabelSQL, serial, element, l.ID, l.Key, l.Label, props)
		}
	}
	if batch.Len() == 0 {
		return nil
	}
	return r.Pool.SendBatch(ctx, batch).Close()
}

// ListLabels 读取一类元素的标签；element 为空时读取全部
func (r *Repository) ListLabels(ctx context.Context, serial, element string) (panel.Labels, error) {
	const q = `SELECT element, idx, key, label, props FROM element_labels
               WHERE panel_serial=$1 AND ($2 = '' OR element=$2)
               ORDER BY element, idx`
	rows, err := r.Pool.Query(ctx, q, serial, element)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(panel.Labels)
	for rows.Next() {
		var (
			el    string
			l     panel.Label
			props []byte
		)
		if err := rows.Scan(&el, &l.ID, &l.Key, &l.Label, &props); err != nil {
			return nil, err
		}
		if len(props) > 0 && string(props) != "{}" {
			if err := json.Unmarshal(props, &l.Props); err != nil {
				return nil, fmt.Errorf("label %s/%d props: %w", el, l.ID, err)
			}
		}
		if out[el] == nil {
			out[el] = make(map[int]panel.Label)
		}
		out[el][l.ID] = l
	}
	return out, rows.Err()
}

// UpsertStatus 按序号合并状态属性
func (r *Repository) UpsertStatus(ctx context.Context, serial string, st panel.Status) error {
	const q = `INSERT INTO element_status (panel_serial, element, idx, props, updated_at)
               VALUES ($1,$2,$3,$4,NOW())
               ON CONFLICT (panel_serial, element, idx)
               DO UPDATE SET props = element_status.props || EXCLUDED.props, updated_at=NOW()`
	batch := &pgx.Batch{}
	for element, entries := range st {
		for idx, props := range entries {
			data, err := propsJSON(props)
			if err != nil {
				return fmt.Errorf("status %s/%d: %w", element, idx, err)
			}
			batch.Queue(q, serial, element, idx, data)
		}
	}
	if batch.Len() == 0 {
		return nil
	}
	return r.Pool.SendBatch(ctx, batch).Close()
}

// ListStatus 读取已持久化的状态
func (r *Repository) ListStatus(ctx context.Context, serial string) (panel.Status, error) {
	rows, err := r.Pool.Query(ctx, `SELECT element, idx, props FROM element_status WHERE panel_serial=$1`, serial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(panel.Status)
	for rows.Next() {
		var (
			el    string
			idx   int
			props map[string]any
		)
		if err := rows.Scan(&el, &idx, &props); err != nil {
			return nil, err
		}
		for k, v := range props {
			out.Set(el, idx, k, v)
		}
	}
	return out, rows.Err()
}
