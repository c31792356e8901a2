package table_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/datapak-io/readiness-cli/pkg/printer/table"

	. "github.com/onsi/gomega"
)

func TestRenderer(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer

	renderer := table.NewRenderer(
		table.WithWriter(&buf),
		table.WithHeaders("STATUS", "CHECK", "MESSAGE"),
	)

	g.Expect(renderer.Append([]any{"PASS", "Platform version", "platform 4.14.3 is supported"})).To(Succeed())
	g.Expect(renderer.Append([]any{"FAIL", "Registry entitlement", "image pull failed"})).To(Succeed())
	g.Expect(renderer.Render()).To(Succeed())

	out := buf.String()
	g.Expect(out).To(ContainSubstring("STATUS"))
	g.Expect(out).To(ContainSubstring("Platform version"))
	g.Expect(out).To(ContainSubstring("image pull failed"))
}

func TestRenderer_RowWidthMismatch(t *testing.T) {
	g := NewWithT(t)

	renderer := table.NewRenderer(
		table.WithWriter(&bytes.Buffer{}),
		table.WithHeaders("A", "B"),
	)

	g.Expect(renderer.Append([]any{"only-one"})).To(HaveOccurred())
}

func TestRenderer_Formatter(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer

	renderer := table.NewRenderer(
		table.WithWriter(&buf),
		table.WithHeaders("STATUS", "CHECK"),
		table.WithFormatter("STATUS", func(value interface{}) any {
			return strings.ToLower(value.(string))
		}),
	)

	g.Expect(renderer.Append([]any{"PASS", "Platform version"})).To(Succeed())
	g.Expect(renderer.Render()).To(Succeed())

	g.Expect(buf.String()).To(ContainSubstring("pass"))
}
