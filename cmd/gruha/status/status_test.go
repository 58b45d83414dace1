package statuscmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	statuscmder "github.com/gruhabuddy/gruha/cmd/gruha/status"
	"github.com/gruhabuddy/gruha/pkg/dotdir"
	"github.com/gruhabuddy/gruha/pkg/gateway"
)

var _ = Describe("NewStatusCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := statuscmder.NewStatusCmd()
		Expect(cmd.Use).To(Equal("status"))
	})

	It("rejects any arguments", func() {
		cmd := statuscmder.NewStatusCmd()
		err := cmd.Args(cmd, []string{"extra"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Status command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "gruha-status-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// Create a local .gruha dir so the manager picks it up
		err = os.MkdirAll(filepath.Join(tmpDir, ".gruha"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	execute := func() string {
		cmd := statuscmder.NewStatusCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(Succeed())
		return out.String()
	}

	It("shows the gateway and no saved chat", func() {
		out := execute()
		Expect(out).To(ContainSubstring(gateway.DefaultEndpoint))
		Expect(out).To(ContainSubstring(gateway.DefaultModel))
		Expect(out).To(ContainSubstring("No saved chat"))
	})

	It("previews the saved chat", func() {
		session := &dotdir.ChatSession{
			Messages: []dotdir.ChatMessage{
				{Role: "user", Content: "Hello!"},
				{Role: "assistant", Content: "Namaste! How can I help with your home?"},
			},
		}
		Expect(dotdir.NewManager().SaveChatSession(session, "")).To(Succeed())

		out := execute()
		Expect(out).To(ContainSubstring("2 messages"))
		Expect(out).To(ContainSubstring("[assistant]"))
		Expect(out).To(ContainSubstring("Namaste!"))
	})
})
