package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/derektruong/fxput"
	"github.com/derektruong/fxput/protoc"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
)

var _ = Describe("fxput", func() {
	var (
		vaultRoot  string
		configPath string
	)

	execute := func(ctx context.Context, stdin io.Reader, args ...string) (stdout []byte, err error) {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetArgs(append([]string{"--config", configPath, "--log-level", "debug"}, args...))
		cmd.SetIn(stdin)
		cmd.SetOut(&out)
		cmd.SetErr(GinkgoWriter)
		err = cmd.ExecuteContext(ctx)
		return out.Bytes(), err
	}

	randomBytes := func(size int) []byte {
		data := make([]byte, size)
		_, _ = rand.Read(data)
		return data
	}

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		vaultRoot = filepath.Join(dir, "vault")
		configPath = filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(configPath, []byte(fmt.Sprintf(`
store:
  type: vault
  vault:
    root: %s
transfer:
  pool_size: 2
  workers: 4
  multi_chunk_threshold: 1KiB
home: /zone/home
`, vaultRoot)), 0o644)).To(Succeed())
	})

	Describe("put and get", func() {
		It("should round trip a chunked file", func(ctx context.Context) {
			data := randomBytes(10_000)
			source := filepath.Join(GinkgoT().TempDir(), "blob.bin")
			Expect(os.WriteFile(source, data, 0o644)).To(Succeed())

			_, err := execute(ctx, nil, "put", source, "/zone/data")
			Expect(err).ToNot(HaveOccurred())
			Expect(filepath.Join(vaultRoot, "zone", "data", "blob.bin")).To(BeARegularFile())

			out, err := execute(ctx, nil, "get", "/zone/data/blob.bin")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(data))
		}, NodeTimeout(30*time.Second))

		It("should upload into the home collection by default", func(ctx context.Context) {
			source := filepath.Join(GinkgoT().TempDir(), "notes.txt")
			Expect(os.WriteFile(source, []byte("hello"), 0o644)).To(Succeed())

			_, err := execute(ctx, nil, "put", source)
			Expect(err).ToNot(HaveOccurred())

			out, err := execute(ctx, nil, "get", "notes.txt")
			Expect(err).ToNot(HaveOccurred())
			Expect(string(out)).To(Equal("hello"))
		}, NodeTimeout(30*time.Second))

		It("should mirror a directory and honor excludes", func(ctx context.Context) {
			tree := filepath.Join(GinkgoT().TempDir(), "project")
			Expect(os.MkdirAll(filepath.Join(tree, "src", ".git"), 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(tree, "README"), []byte("readme"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(tree, "src", "main.go"), randomBytes(4096), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(tree, "src", ".git", "HEAD"), []byte("ref"), 0o644)).To(Succeed())

			_, err := execute(ctx, nil, "put", "-c", "3", "-w", "2", "--exclude", "**/.git/**", tree, "/zone")
			Expect(err).ToNot(HaveOccurred())

			Expect(filepath.Join(vaultRoot, "zone", "project", "README")).To(BeARegularFile())
			Expect(filepath.Join(vaultRoot, "zone", "project", "src", "main.go")).To(BeARegularFile())
			Expect(filepath.Join(vaultRoot, "zone", "project", "src", ".git", "HEAD")).ToNot(BeAnExistingFile())
		}, NodeTimeout(30*time.Second))

		It("should stream standard input into a data object", func(ctx context.Context) {
			data := randomBytes(5000)
			Expect(os.MkdirAll(filepath.Join(vaultRoot, "zone"), 0o755)).To(Succeed())
			_, err := execute(ctx, bytes.NewReader(data), "put", "-", "/zone/stdin.bin")
			Expect(err).ToNot(HaveOccurred())

			target := filepath.Join(GinkgoT().TempDir(), "copy.bin")
			_, err = execute(ctx, nil, "get", "/zone/stdin.bin", target)
			Expect(err).ToNot(HaveOccurred())
			Expect(os.ReadFile(target)).To(Equal(data))
		}, NodeTimeout(30*time.Second))

		It("should require a logical path for standard input", func(ctx context.Context) {
			_, err := execute(ctx, bytes.NewReader(nil), "put", "-")
			Expect(err).To(MatchError(ContainSubstring("requires a logical path")))
		}, NodeTimeout(30*time.Second))

		It("should fail when the source is missing", func(ctx context.Context) {
			_, err := execute(ctx, nil, "put", filepath.Join(GinkgoT().TempDir(), "missing"))
			Expect(err).To(HaveOccurred())
		}, NodeTimeout(30*time.Second))

		It("should reject a non positive worker count", func(ctx context.Context) {
			source := filepath.Join(GinkgoT().TempDir(), "a.txt")
			Expect(os.WriteFile(source, []byte("a"), 0o644)).To(Succeed())
			_, err := execute(ctx, nil, "put", "-w", "0", source)
			Expect(err).To(MatchError(ContainSubstring("--workers")))
		}, NodeTimeout(30*time.Second))

		It("should refuse to get a collection", func(ctx context.Context) {
			Expect(os.MkdirAll(filepath.Join(vaultRoot, "zone", "coll"), 0o755)).To(Succeed())
			_, err := execute(ctx, nil, "get", "/zone/coll")
			Expect(err).To(MatchError(protoc.ErrNotDataObject))
		}, NodeTimeout(30*time.Second))
	})

	Describe("touch", func() {
		It("should set the modification time of a data object", func(ctx context.Context) {
			Expect(os.MkdirAll(filepath.Join(vaultRoot, "zone"), 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(vaultRoot, "zone", "f"), []byte("x"), 0o644)).To(Succeed())

			_, err := execute(ctx, nil, "touch", "/zone/f", "1700000000")
			Expect(err).ToNot(HaveOccurred())
			info, err := os.Stat(filepath.Join(vaultRoot, "zone", "f"))
			Expect(err).ToNot(HaveOccurred())
			Expect(info.ModTime().Unix()).To(Equal(int64(1700000000)))
		}, NodeTimeout(30*time.Second))

		It("should create an empty data object with --create", func(ctx context.Context) {
			Expect(os.MkdirAll(filepath.Join(vaultRoot, "zone"), 0o755)).To(Succeed())

			_, err := execute(ctx, nil, "touch", "--create", "/zone/.keep")
			Expect(err).ToNot(HaveOccurred())
			out, err := execute(ctx, nil, "get", "/zone/.keep")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(BeEmpty())
		}, NodeTimeout(30*time.Second))

		It("should fail on a missing path without --create", func(ctx context.Context) {
			_, err := execute(ctx, nil, "touch", "/zone/missing")
			Expect(err).To(MatchError(protoc.ErrNotFound))
		}, NodeTimeout(30*time.Second))

		It("should reject an invalid unix time", func(ctx context.Context) {
			_, err := execute(ctx, nil, "touch", "/zone", "yesterday")
			Expect(err).To(MatchError(ContainSubstring("invalid unix time")))
		}, NodeTimeout(30*time.Second))
	})

	Describe("config", func() {
		It("should fail on an invalid config file", func(ctx context.Context) {
			Expect(os.WriteFile(configPath, []byte("store:\n  type: tape\n"), 0o644)).To(Succeed())
			_, err := execute(ctx, nil, "get", "/zone/f")
			Expect(err).To(MatchError(ContainSubstring("failed to load config")))
		}, NodeTimeout(30*time.Second))

		It("should reject a non positive pool size", func(ctx context.Context) {
			_, err := execute(ctx, nil, "get", "--connection-pool-size=0", "/zone/f")
			Expect(err).To(MatchError(ContainSubstring("--connection-pool-size")))
		}, NodeTimeout(30*time.Second))
	})

	It("should close the connection pool when a command fails", func(ctx context.Context) {
		a := &app{logger: GinkgoLogr, cfg: fxput.DefaultConfig()}
		a.cfg.Store.Vault.Root = filepath.Join(GinkgoT().TempDir(), "vault")

		var leased *protoc.Pool
		run := a.runE(func(cmd *cobra.Command, args []string) (err error) {
			if leased, err = a.connectionPool(); err != nil {
				return
			}
			return errors.New("remote write failed")
		})
		Expect(run(&cobra.Command{}, nil)).To(MatchError("remote write failed"))
		Expect(leased).ToNot(BeNil())
		Expect(a.pool).To(BeNil())
		_, err := leased.Acquire(ctx)
		Expect(err).To(MatchError(protoc.ErrPoolClosed))
	}, NodeTimeout(30*time.Second))

	It("should print the version without loading the config", func(ctx context.Context) {
		configPath = filepath.Join(GinkgoT().TempDir(), "missing.yaml")
		out, err := execute(ctx, nil, "version")
		Expect(err).ToNot(HaveOccurred())
		Expect(string(out)).To(HavePrefix("fxput dev "))
	}, NodeTimeout(30*time.Second))
})
