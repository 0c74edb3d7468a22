// Command textguard-screen screens text files line by line against a policy
// file without running the API. Each line becomes one JSON result on stdout
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"textguard/internal/core/detector"
	"textguard/internal/core/policy"
	"textguard/internal/modkit"
	"textguard/internal/modkit/module"
	"textguard/internal/platform/config"
	"textguard/internal/platform/logger"
	"textguard/internal/services/screen/domain"
	screenmod "textguard/internal/services/screen/module"

	"golang.org/x/sync/errgroup"
)

type line struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	domain.ScreenOutput
}

func main() {
	_ = config.LoadDotEnv()

	var (
		fPolicy  = flag.String("policy", os.Getenv("CORE_SCREEN_POLICY_FILE"), "policy YAML file")
		fTenant  = flag.String("tenant", "default", "tenant whose policy applies")
		fDir     = flag.String("dir", "input", "direction: input | output")
		fWorkers = flag.Int("workers", runtime.GOMAXPROCS(0), "lines screened concurrently")
		fProbe   = flag.Bool("probe", false, "follow up links with a HEAD redirect probe")
		fExit    = flag.Bool("exit-code", false, "exit 1 when any line is rejected")
	)
	flag.Parse()

	// stdout carries results
	lo := logger.FromEnv()
	lo.Writer = os.Stderr
	logger.Init(lo)
	l := logger.Get()

	if *fPolicy == "" {
		l.Fatal().Msg("-policy or CORE_SCREEN_POLICY_FILE is required")
	}
	dir, err := policy.ParseDirection(*fDir)
	if err != nil {
		l.Fatal().Err(err).Msg("bad -dir")
	}

	root := config.New()
	o := screenmod.FromConfig(root)
	o.PolicyFile = *fPolicy
	o.ProbeRedirects = *fProbe

	m := screenmod.New(modkit.Deps{Log: l, Cfg: root}, o)
	screener := module.MustPortsOf[screenmod.Ports](m).Screener

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources := flag.Args()
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	rejected := false
	out := json.NewEncoder(os.Stdout)
	for _, src := range sources {
		res, err := screenSource(ctx, screener, src, dir, *fTenant, *fWorkers)
		if err != nil {
			l.Fatal().Err(err).Str("source", src).Msg("screen failed")
		}
		for _, r := range res {
			rejected = rejected || r.Reject
			if err := out.Encode(r); err != nil {
				l.Fatal().Err(err).Msg("write")
			}
		}
	}

	if err := m.Close(context.Background()); err != nil {
		l.Warn().Err(err).Msg("close")
	}
	if *fExit && rejected {
		os.Exit(1)
	}
}

func screenSource(ctx context.Context, s domain.ServicePort, src string, dir policy.Direction, tenant string, workers int) ([]line, error) {
	var r io.Reader = os.Stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var texts []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		texts = append(texts, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]line, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, text := range texts {
		g.Go(func() error {
			if text == "" {
				out[i] = line{Source: src, Line: i + 1, ScreenOutput: domain.ScreenOutput{Direction: dir, Reasons: []detector.Reason{}}}
				return nil
			}
			res, err := s.Screen(gctx, dir, tenant, domain.ScreenInput{
				Text:      text,
				RequestID: fmt.Sprintf("%s:%d", src, i+1),
			})
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			out[i] = line{Source: src, Line: i + 1, ScreenOutput: res}
			return nil
		})
	}
	return out, g.Wait()
}
