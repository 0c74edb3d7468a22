package net

import (
	"context"
	"net/http"
	"testing"

	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/logger"
)

func TestWithRequest(t *testing.T) {
	t.Parallel()

	ctx := WithRequest(context.Background(), "req-1", "acme")
	if RequestID(ctx) != "req-1" {
		t.Fatalf("RequestID = %q", RequestID(ctx))
	}
	if TenantID(ctx) != "acme" {
		t.Fatalf("TenantID = %q", TenantID(ctx))
	}
	if logger.RequestID(ctx) != "req-1" {
		t.Fatalf("logger context not annotated")
	}

	empty := WithRequest(context.Background(), "", "")
	if RequestID(empty) != "" || TenantID(empty) != "" {
		t.Fatalf("empty ids must not be stored")
	}
}

func TestReplies(t *testing.T) {
	t.Parallel()

	ok := Success(0, map[string]int{"n": 1}, "r")
	if ok.StatusCode != http.StatusOK || ok.Status != "OK" || ok.RequestID != "r" {
		t.Fatalf("Success = %+v", ok)
	}

	f := Failure(perr.WithField(perr.Configf("no policy"), "tenant"), "r")
	if f.StatusCode != http.StatusUnprocessableEntity || f.Code != perr.ErrorCodeConfig {
		t.Fatalf("Failure status/code = %d/%v", f.StatusCode, f.Code)
	}
	if f.Error != "no policy" || f.Field != "tenant" {
		t.Fatalf("Failure message/field = %q/%q", f.Error, f.Field)
	}

	if n := Failure(nil, ""); n.StatusCode != http.StatusOK {
		t.Fatalf("Failure(nil) = %+v", n)
	}
}
