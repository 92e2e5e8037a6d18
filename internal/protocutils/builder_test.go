package protocutils_test

import (
	"github.com/derektruong/fxput/internal/protocutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Builder", func() {
	Describe("BuildAddress", func() {
		It("should return the host if the port is not provided", func() {
			address := protocutils.BuildAddress("localhost", 0)
			Expect(address).To(Equal("localhost"))
		})

		It("should return the host and port if the port is provided", func() {
			address := protocutils.BuildAddress("localhost:8080", 8080)
			Expect(address).To(Equal("localhost:8080"))
		})

		It("should return an empty string if the host is empty", func() {
			address := protocutils.BuildAddress("", 8080)
			Expect(address).To(Equal(""))
		})
	})

	Describe("BuildEndpoint", func() {
		DescribeTable("builds the endpoint URL",
			func(host string, port int, secure bool, expected string) {
				Expect(protocutils.BuildEndpoint(host, port, secure)).To(Equal(expected))
			},
			Entry("plain host", "minio.local", 9000, false, "http://minio.local:9000"),
			Entry("secure host", "s3.amazonaws.com", 0, true, "https://s3.amazonaws.com"),
			Entry("host with scheme", "https://minio.local", 9000, false, "https://minio.local:9000"),
			Entry("empty host", "", 9000, true, ""),
		)
	})
})
