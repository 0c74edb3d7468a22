package ch

import (
	"context"
	"errors"
	"testing"

	"textguard/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type fakeBatch struct {
	rows    [][]any
	failAt  int
	sent    bool
	aborted bool
}

func (b *fakeBatch) Append(v ...any) error {
	if b.failAt > 0 && len(b.rows)+1 == b.failAt {
		return errors.New("bad column")
	}
	b.rows = append(b.rows, v)
	return nil
}
func (b *fakeBatch) Send() error  { b.sent = true; return nil }
func (b *fakeBatch) Abort() error { b.aborted = true; return nil }

type fakeConn struct {
	query   string
	b       *fakeBatch
	pingErr error
	closed  bool
}

func (c *fakeConn) prepare(_ context.Context, q string) (batch, error) {
	c.query = q
	return c.b, nil
}
func (c *fakeConn) Ping(context.Context) error { return c.pingErr }
func (c *fakeConn) Close() error               { c.closed = true; return nil }

func TestInsert(t *testing.T) {
	t.Parallel()

	fb := &fakeBatch{}
	fc := &fakeConn{b: fb}
	c := &CH{conn: fc}

	if err := c.Insert(context.Background(), "screen_results", nil); err != nil {
		t.Fatalf("empty insert: %v", err)
	}
	if fc.query != "" {
		t.Fatalf("empty insert should not prepare a batch")
	}

	rows := [][]any{{"r1", 1.5}, {"r2", 0.0}}
	if err := c.Insert(context.Background(), "screen_results", rows); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if fc.query != "INSERT INTO screen_results" || len(fb.rows) != 2 || !fb.sent {
		t.Fatalf("unexpected batch state: q=%q rows=%d sent=%v", fc.query, len(fb.rows), fb.sent)
	}
}

func TestInsertAbortsOnAppendError(t *testing.T) {
	t.Parallel()

	fb := &fakeBatch{failAt: 2}
	c := &CH{conn: &fakeConn{b: fb}}
	err := c.Insert(context.Background(), "screen_results", [][]any{{1}, {2}, {3}})
	if err == nil || !fb.aborted || fb.sent {
		t.Fatalf("expected abort, err=%v aborted=%v sent=%v", err, fb.aborted, fb.sent)
	}
	if err := c.Insert(context.Background(), " ", [][]any{{1}}); err == nil {
		t.Fatalf("blank table should fail")
	}
}

func TestOpen(t *testing.T) {
	testkit.Serial(t)

	fc := &fakeConn{}
	var gotOpts *clickhouse.Options
	testkit.Swap(t, &dial, func(o *clickhouse.Options) (conn, error) {
		gotOpts = o
		return fc, nil
	})

	c, err := Open(context.Background(), Config{URL: "clickhouse://default:@localhost:9000/textguard", ClientName: "textguard", ClientTag: "api"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if gotOpts.Auth.Database != "textguard" {
		t.Fatalf("database = %q", gotOpts.Auth.Database)
	}
	if len(gotOpts.ClientInfo.Products) == 0 || gotOpts.ClientInfo.Products[0].Version != "api" {
		t.Fatalf("client info not stamped: %+v", gotOpts.ClientInfo)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	_ = c.Close()
	if !fc.closed {
		t.Fatalf("Close not forwarded")
	}

	fc2 := &fakeConn{pingErr: errors.New("down")}
	testkit.Swap(t, &dial, func(*clickhouse.Options) (conn, error) { return fc2, nil })
	if _, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000"}); err == nil || !fc2.closed {
		t.Fatalf("failed ping should close and error, err=%v", err)
	}
	if _, err := Open(context.Background(), Config{URL: "::not a dsn"}); err == nil {
		t.Fatalf("bad dsn should fail")
	}
}

func TestNilSafe(t *testing.T) {
	t.Parallel()
	var c *CH
	if c.Ping(context.Background()) == nil {
		t.Fatalf("nil ping should error")
	}
	if c.Close() != nil {
		t.Fatalf("nil close should be a no-op")
	}
}
