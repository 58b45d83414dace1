package prompt_test

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gruhabuddy/gruha/pkg/design"
	"github.com/gruhabuddy/gruha/pkg/prompt"
)

func payloadFor(action design.Action, data string) design.Payload {
	p, err := design.DecodePayload(action, json.RawMessage(data))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Build", func() {
	It("renders non-empty prompts for every action with empty data", func() {
		for _, action := range design.Actions() {
			pair, err := prompt.Build(payloadFor(action, `{}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.System).To(HavePrefix("You are GruhaBuddy"), string(action))
			Expect(pair.User).NotTo(BeEmpty())
			Expect(pair.User).NotTo(HaveSuffix("\n"))
			Expect(pair.User).NotTo(ContainSubstring("<no value>"))
		}
	})

	It("is deterministic", func() {
		p := payloadFor(design.ActionColorSuggestions, `{"mood":"Energetic"}`)
		first, err := prompt.Build(p)
		Expect(err).NotTo(HaveOccurred())
		second, err := prompt.Build(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	Describe("analyze-room", func() {
		It("applies dimension defaults", func() {
			pair, err := prompt.Build(payloadFor(design.ActionAnalyzeRoom, `{"roomType":"Bedroom"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.User).To(HavePrefix("Analyze this room and provide comprehensive design recommendations:\nRoom Type: Bedroom\n"))
			Expect(pair.User).To(ContainSubstring("Dimensions: 12ft × 10ft × 9ft\n"))
			Expect(pair.User).To(ContainSubstring("Has Photo: false\n"))
			Expect(pair.User).To(ContainSubstring("Additional Features: standard room\n"))
			Expect(pair.User).To(ContainSubstring(`"vastuCompliance": "percentage string"`))
		})

		It("interpolates given values", func() {
			pair, err := prompt.Build(payloadFor(design.ActionAnalyzeRoom, `{"roomType":"Kitchen","dimensions":{"length":14,"width":11,"height":10},"hasPhoto":true,"features":"east window"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.User).To(ContainSubstring("Room Type: Kitchen\nDimensions: 14ft × 11ft × 10ft\nHas Photo: true\nAdditional Features: east window\n"))
		})
	})

	Describe("theme-recommendations", func() {
		It("quotes the theme in the header and the schema", func() {
			pair, err := prompt.Build(payloadFor(design.ActionThemeRecommendations, `{"theme":"Vastu-Based Layout"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.User).To(HavePrefix(`Generate a complete design plan for the "Vastu-Based Layout" theme:`))
			Expect(pair.User).To(ContainSubstring(`"themeName": "Vastu-Based Layout"`))
			Expect(pair.User).To(ContainSubstring("Room Type: Living Room\nDimensions: 12ft × 10ft\nBudget: ₹1-3 Lakhs\n"))
		})
	})

	Describe("color-suggestions", func() {
		It("applies every default", func() {
			pair, err := prompt.Build(payloadFor(design.ActionColorSuggestions, `{}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.User).To(HavePrefix("Suggest a color scheme for:\nMood: Calm\nRoom Type: Bedroom\nRoom Size: 120 sq ft\nLighting: Natural + Artificial\n"))
		})
	})

	Describe("budget-optimize", func() {
		It("renders defaults and an empty category object", func() {
			pair, err := prompt.Build(payloadFor(design.ActionBudgetOptimize, `{}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.User).To(HavePrefix("Optimize this interior design budget:\nTotal Budget: ₹150000\nRoom Size: 120 sq ft\nRoom Type: Bedroom\nCategories: {}\n"))
			Expect(strings.Count(pair.User, `"recommended": "₹X"`)).To(Equal(6))
		})

		It("serializes the client categories", func() {
			pair, err := prompt.Build(payloadFor(design.ActionBudgetOptimize, `{"totalBudget":300000,"categories":{"Flooring":45000}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.User).To(ContainSubstring("Total Budget: ₹300000\n"))
			Expect(pair.User).To(ContainSubstring(`Categories: {"Flooring":45000}`))
		})
	})

	It("carries the chat persona", func() {
		Expect(prompt.ChatSystemPrompt()).To(HavePrefix("You are GruhaBuddy"))
	})
})
