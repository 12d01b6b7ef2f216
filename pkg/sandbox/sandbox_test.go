/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sandbox_test

import (
	"context"
	"fmt"
	"os"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/hyperledger-labs/difftest/pkg/sandbox"
)

var _ = Describe("GoroutineBounder", func() {
	It("completes fast work", func() {
		ran := false
		completed := sandbox.GoroutineBounder{}.Run(time.Second, func(ctx context.Context) {
			ran = true
		})
		Expect(completed).To(BeTrue())
		Expect(ran).To(BeTrue())
	})

	It("abandons slow work and cancels its context", func() {
		canceled := make(chan struct{})
		completed := sandbox.GoroutineBounder{}.Run(10*time.Millisecond, func(ctx context.Context) {
			<-ctx.Done()
			close(canceled)
		})
		Expect(completed).To(BeFalse())
		Eventually(canceled).Should(BeClosed())
	})

	It("raises a panic of completed work on the caller", func() {
		Expect(func() {
			sandbox.GoroutineBounder{}.Run(time.Second, func(ctx context.Context) {
				panic("worker failed")
			})
		}).To(PanicWith("worker failed"))
	})

	It("runs inline without a timeout", func() {
		completed := sandbox.GoroutineBounder{}.Run(0, func(ctx context.Context) {
			Expect(ctx.Err()).NotTo(HaveOccurred())
		})
		Expect(completed).To(BeTrue())
	})
})

var _ = Describe("StdCapturer", func() {
	It("captures both streams and restores them", func() {
		originalOut := os.Stdout
		stdout, stderr, err := (&sandbox.StdCapturer{}).Capture(func() {
			fmt.Println("hello")
			fmt.Fprint(os.Stderr, "oops")
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(Equal("hello\n"))
		Expect(stderr).To(Equal("oops"))
		Expect(os.Stdout).To(BeIdenticalTo(originalOut))
	})
})
