package fxput_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/derektruong/fxput"
	"github.com/derektruong/fxput/protoc/memory"
	"github.com/derektruong/fxput/protoc/s3"
	"github.com/derektruong/fxput/protoc/vault"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	writeConfig := func(content string) string {
		GinkgoHelper()
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	It("should provide valid defaults", func(ctx context.Context) {
		cfg := fxput.DefaultConfig()
		Expect(cfg.Validate(ctx)).To(Succeed())
		Expect(cfg.Store.Type).To(Equal(fxput.StoreVault))
		Expect(cfg.Transfer.PoolSize).To(Equal(4))
		Expect(cfg.Transfer.ConnectionRefresh).To(Equal(600 * time.Second))
		Expect(cfg.Home).To(Equal("/"))
	}, NodeTimeout(10*time.Second))

	It("should load a file over the defaults", func(ctx context.Context) {
		path := writeConfig(`
store:
  type: s3
  s3:
    host: localhost
    port: 9000
    bucket: archive
    region: us-east-1
    access_key: minioadmin
    secret_key: minioadmin
transfer:
  pool_size: 8
  buffer_size: 8MiB
  acquire_timeout: 30s
  excludes:
    - "**/*.tmp"
home: /zone/home/alice
`)
		cfg, err := fxput.LoadConfig(ctx, path)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Store.S3.Bucket).To(Equal("archive"))
		Expect(cfg.Transfer.PoolSize).To(Equal(8))
		Expect(cfg.Transfer.AcquireTimeout).To(Equal(30 * time.Second))
		Expect(cfg.Transfer.MultiChunkThreshold).To(Equal("32MiB"))
		Expect(cfg.Transfer.Excludes).To(Equal([]string{"**/*.tmp"}))
		Expect(cfg.Home).To(Equal("/zone/home/alice"))

		client, err := cfg.Store.NewClient()
		Expect(err).ToNot(HaveOccurred())
		Expect(client).To(BeAssignableToTypeOf(&s3.Client{}))
		Expect(client.(*s3.Client).Endpoint).To(Equal("http://localhost:9000"))

		options, err := cfg.Transfer.UploadOptions()
		Expect(err).ToNot(HaveOccurred())
		Expect(options).To(HaveLen(4))
		Expect(cfg.Transfer.PoolOptions()).To(HaveLen(2))
	}, NodeTimeout(10*time.Second))

	DescribeTable("should reject invalid files",
		func(ctx context.Context, content, expectedMsg string) {
			_, err := fxput.LoadConfig(ctx, writeConfig(content))
			Expect(err).To(MatchError(ContainSubstring(expectedMsg)))
		},
		Entry("unknown store", "store: {type: ftp}", "'Type' failed on the 'oneof' tag", NodeTimeout(10*time.Second)),
		Entry("vault without root", "store: {type: vault, vault: {root: ''}}", "store.vault.root is required", NodeTimeout(10*time.Second)),
		Entry("s3 without bucket", "store: {type: s3, s3: {host: localhost}}", "store.s3.bucket is required", NodeTimeout(10*time.Second)),
		Entry("bad size", "transfer: {buffer_size: lots}", "transfer.buffer_size", NodeTimeout(10*time.Second)),
		Entry("bad exclude", "transfer: {excludes: ['[x']}", "invalid exclude pattern", NodeTimeout(10*time.Second)),
		Entry("relative home", "home: zone", "'Home' failed on the 'startswith' tag", NodeTimeout(10*time.Second)),
		Entry("negative pool", "transfer: {pool_size: -1}", "'PoolSize' failed on the 'gte' tag", NodeTimeout(10*time.Second)),
		Entry("not yaml", "store: [", "parse config", NodeTimeout(10*time.Second)),
	)

	It("should fail on a missing file", func(ctx context.Context) {
		_, err := fxput.LoadConfig(ctx, filepath.Join(GinkgoT().TempDir(), "nope.yaml"))
		Expect(err).To(MatchError(os.ErrNotExist))
	}, NodeTimeout(10*time.Second))

	It("should build every store client", func() {
		client, err := fxput.StoreConfig{Type: fxput.StoreVault, Vault: fxput.VaultConfig{Root: "/srv"}}.NewClient()
		Expect(err).ToNot(HaveOccurred())
		Expect(client).To(BeAssignableToTypeOf(&vault.Client{}))

		client, err = fxput.StoreConfig{Type: fxput.StoreMemory}.NewClient()
		Expect(err).ToNot(HaveOccurred())
		Expect(client).To(BeAssignableToTypeOf(&memory.Store{}))

		_, err = fxput.StoreConfig{Type: "ftp"}.NewClient()
		Expect(err).To(HaveOccurred())
	})

	It("should find the config file from the environment", func() {
		path := writeConfig("home: /")
		GinkgoT().Setenv(fxput.ConfigEnv, path)
		found, err := fxput.FindConfigFile()
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(Equal(path))
	})
})
