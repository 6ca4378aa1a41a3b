// Seed script for regenerating the sample corpus pack under data/.
// Run with: go run ./scripts/seed.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/store"
)

func main() {
	// Load environment
	envFile := os.Getenv("WISDOM_ENV")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	dataDir := os.Getenv("SEED_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	nodesPath := filepath.Join(dataDir, "golden_nodes.jsonl")
	questionsPath := filepath.Join(dataDir, "demo_questions.json")
	precomputedPath := filepath.Join(dataDir, "precomputed_answers.json")

	if err := writeNodes(nodesPath); err != nil {
		log.Fatalf("Failed to write nodes: %v", err)
	}
	if err := writeQuestions(questionsPath); err != nil {
		log.Fatalf("Failed to write questions: %v", err)
	}
	if err := writePrecomputed(precomputedPath); err != nil {
		log.Fatalf("Failed to write precomputed answers: %v", err)
	}

	// Round-trip through the real loaders so a broken pack never ships.
	nodes, err := store.LoadNodes(nodesPath)
	if err != nil {
		log.Fatalf("Seeded corpus failed validation: %v", err)
	}
	questions, err := store.LoadQuestions(questionsPath)
	if err != nil {
		log.Fatalf("Seeded questions failed validation: %v", err)
	}
	table, err := store.LoadPrecomputed(precomputedPath)
	if err != nil {
		log.Fatalf("Seeded answers failed validation: %v", err)
	}
	for _, q := range questions {
		if _, ok := table.Lookup(q); !ok {
			log.Fatalf("Demo question has no precomputed answer: %q", q)
		}
	}

	fmt.Printf("Wrote %d nodes to %s\n", nodes.Count(), nodesPath)
	fmt.Printf("Wrote %d questions to %s\n", len(questions), questionsPath)
	fmt.Printf("Wrote %d precomputed answers to %s\n", table.Count(), precomputedPath)

	fmt.Println("\n=== Seed Complete ===")
	fmt.Println("\nTo try the pack:")
	fmt.Println("go run ./cmd/wisdomctl validate")
	fmt.Printf("go run ./cmd/wisdomctl ask \"%s\"\n", questions[0])
}

func writeNodes(path string) error {
	var buf bytes.Buffer
	for _, n := range sampleNodes() {
		line, err := json.Marshal(n)
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func writeQuestions(path string) error {
	payload := map[string][]string{"questions": store.DefaultQuestions()}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func writePrecomputed(path string) error {
	data, err := json.MarshalIndent(sampleAnswers(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// sampleNodes is the Golden_Ethics_Sample_v1 corpus: eight curated nodes on
// epistemic honesty. Content is fixed so reruns produce identical files.
func sampleNodes() []domain.WisdomNode {
	return []domain.WisdomNode{
		{
			ID:         "wn-001",
			Insight:    "Saying 'I don't know' preserves trust that a confident guess spends.",
			Reflection: "An honest admission of ignorance keeps the door open for correction; a wrong answer delivered confidently closes it.",
			Evidence: domain.EvidenceList{
				{Quote: "Calibration errors compound: each overconfident answer raises the cost of the next correction.", Locator: "ch. 4"},
			},
			Counterpoint: "Constant hedging can erode trust as badly as overconfidence when the speaker does know.",
			Posterior:    0.94,
			Warmth:       domain.WarmthHigh,
			Tier:         domain.TierUniversal,
			SourceType:   "book",
			SourceURI:    "pack://golden-ethics/calibrated-trust",
			Timestamp:    "2025-05-11T08:30:00Z",
		},
		{
			ID:         "wn-002",
			Insight:    "Confidence is a claim about evidence, not about the speaker's mood.",
			Reflection: "Expressed certainty should track the strength of the underlying evidence and nothing else.",
			Evidence: domain.EvidenceList{
				{Quote: "Subjects trusted confident advisors more even when their accuracy was no better than chance.", Locator: "study 2"},
			},
			Counterpoint: "Displayed confidence does carry social information when reputations are tracked over time.",
			Posterior:    0.91,
			Warmth:       domain.WarmthMedium,
			Tier:         domain.TierUniversal,
			SourceType:   "paper",
			SourceURI:    "pack://golden-ethics/confidence-evidence",
			Timestamp:    "2025-05-11T08:31:00Z",
		},
		{
			ID:         "wn-003",
			Insight:    "Partial truths told to protect yourself still count as deception.",
			Reflection: "Omission chosen for self-interest shifts the cost of your comfort onto the listener.",
			Evidence: domain.EvidenceList{
				{Quote: "The lie of omission is the easiest to rationalize and the hardest to detect.", Locator: "ch. 2"},
			},
			Counterpoint: "Some omissions protect third parties rather than the speaker; motive matters.",
			Posterior:    0.88,
			Warmth:       domain.WarmthHigh,
			Tier:         domain.TierSacred,
			SourceType:   "book",
			SourceURI:    "pack://golden-ethics/honest-omission",
			Timestamp:    "2025-05-11T08:32:00Z",
		},
		{
			ID:         "wn-004",
			Insight:    "Humility about knowledge is precision, not self-deprecation.",
			Reflection: "Knowing the boundary of your competence is itself a form of competence.",
			Evidence: domain.EvidenceList{
				{Quote: "Experts differ from novices most sharply in knowing which questions they cannot answer.", Locator: "sec. 5.1"},
			},
			Posterior:  0.9,
			Warmth:     domain.WarmthMedium,
			Tier:       domain.TierUniversal,
			SourceType: "paper",
			SourceURI:  "pack://golden-ethics/expert-boundaries",
			Timestamp:  "2025-05-11T08:33:00Z",
		},
		{
			ID:         "wn-005",
			Insight:    "Conflicting evidence is a finding, not a failure.",
			Reflection: "Reporting the conflict honestly beats forcing a clean answer the data cannot support.",
			Evidence: domain.EvidenceList{
				{Quote: "When sources disagree, the disagreement itself is the most informative thing you can report.", Locator: "ch. 7"},
			},
			Counterpoint: "Endless both-sides framing can hide a clear weight of evidence.",
			Posterior:    0.86,
			Warmth:       domain.WarmthMedium,
			Tier:         domain.TierUniversal,
			SourceType:   "book",
			SourceURI:    "pack://golden-ethics/conflict-reporting",
			Timestamp:    "2025-05-11T08:34:00Z",
		},
		{
			ID:         "wn-006",
			Insight:    "Incomplete evidence demands provisional answers with visible seams.",
			Reflection: "Showing where an answer could break invites the correction that makes it stronger.",
			Evidence: domain.EvidenceList{
				{Quote: "Provisional conclusions labeled as provisional were revised three times faster than unlabeled ones.", Locator: "fig. 3"},
			},
			Posterior:  0.83,
			Warmth:     domain.WarmthLow,
			Tier:       domain.TierUniversal,
			SourceType: "paper",
			SourceURI:  "pack://golden-ethics/provisional-answers",
			Timestamp:  "2025-05-11T08:35:00Z",
		},
		{
			ID:         "wn-007",
			Insight:    "Trust is built by predictable honesty under pressure, not by occasional grand candor.",
			Reflection: "The small, costly disclosures matter more than dramatic confessions.",
			Evidence: domain.EvidenceList{
				{Quote: "Reliability under minor stakes predicted honesty under major stakes better than stated values did.", Locator: "table 4"},
			},
			Posterior:  0.89,
			Warmth:     domain.WarmthHigh,
			Tier:       domain.TierUniversal,
			SourceType: "paper",
			SourceURI:  "pack://golden-ethics/small-disclosures",
			Timestamp:  "2025-05-11T08:36:00Z",
		},
		{
			ID:         "wn-008",
			Insight:    "A system that cannot say no will eventually lie.",
			Reflection: "Refusal has to be an available answer for any honest process, human or machine.",
			Evidence: domain.EvidenceList{
				{Quote: "Agents denied the option to decline fabricated plausible answers under load.", Locator: "sec. 6"},
			},
			Counterpoint: "Refusal can become its own evasion when used to dodge accountable judgment.",
			Posterior:    0.8,
			Warmth:       domain.WarmthMedium,
			Tier:         domain.TierSacred,
			SourceType:   "paper",
			SourceURI:    "pack://golden-ethics/refusal-option",
			Timestamp:    "2025-05-11T08:37:00Z",
		},
	}
}

// sampleAnswers precomputes one baseline and one augmented answer per demo
// question so the mock backend can run the full comparison offline.
func sampleAnswers() []domain.PrecomputedAnswer {
	return []domain.PrecomputedAnswer{
		{
			Question:  "When should an AI say 'I don't know' instead of giving a partial answer?",
			Baseline:  "An AI should say it does not know when it lacks sufficient information to give a reliable answer. In general, providing partial information with appropriate caveats is helpful, so the AI should try to share what it can while noting its uncertainty.",
			Augmented: "Whenever the expected cost of a wrong answer exceeds the value of a partial one. Saying 'I don't know' preserves the trust that a confident guess spends: each overconfident answer raises the cost of the next correction. A partial answer is only honest when its seams are visible, meaning the answer labels what is established, what is inferred, and what is missing. And the refusal option must actually be available: a system that cannot say no will eventually fabricate.",
			ContextBullets: []string{
				"Saying 'I don't know' preserves trust that a confident guess spends.",
				"Incomplete evidence demands provisional answers with visible seams.",
				"A system that cannot say no will eventually lie.",
			},
		},
		{
			Question:  "Why is it dangerous to act confident when you're actually uncertain?",
			Baseline:  "Acting confident while uncertain can mislead people into relying on incorrect information. It can damage credibility when errors are discovered, and it may cause bad decisions downstream.",
			Augmented: "Because confidence is a claim about evidence, not about the speaker's mood, and listeners calibrate their reliance on it. People trust confident advisors even when their accuracy is no better than chance, so feigned certainty converts your uncertainty into their risk. Calibration errors also compound: every overconfident answer makes the eventual correction more expensive and less believed.",
			ContextBullets: []string{
				"Confidence is a claim about evidence, not about the speaker's mood.",
				"Saying 'I don't know' preserves trust that a confident guess spends.",
			},
		},
		{
			Question:  "How can a person stay honest when telling the full truth might hurt them?",
			Baseline:  "Staying honest in difficult situations requires courage and a long-term perspective. Being truthful builds trust over time, even when it carries short-term costs.",
			Augmented: "Start by noticing that partial truths told for self-protection still count as deception: omission chosen for self-interest shifts the cost of your comfort onto the listener. Trust is built by predictable honesty under pressure, so the small costly disclosure today is what makes your word worth anything tomorrow. Honesty does not require volunteering everything; the line is motive, and omissions that protect a third party are different in kind from the ones that protect you.",
			ContextBullets: []string{
				"Partial truths told to protect yourself still count as deception.",
				"Trust is built by predictable honesty under pressure, not by occasional grand candor.",
			},
		},
		{
			Question:  "What does it mean to be humble about what you know?",
			Baseline:  "Intellectual humility means recognizing that your knowledge is limited and being open to learning from others. It involves admitting mistakes and avoiding arrogance.",
			Augmented: "Humility about knowledge is precision, not self-deprecation: knowing the boundary of your competence is itself a form of competence. Experts differ from novices most sharply in knowing which questions they cannot answer. Practically, that means stating confidence as a claim about your evidence and keeping provisional answers labeled as provisional, seams visible.",
			ContextBullets: []string{
				"Humility about knowledge is precision, not self-deprecation.",
				"Confidence is a claim about evidence, not about the speaker's mood.",
				"Incomplete evidence demands provisional answers with visible seams.",
			},
		},
		{
			Question:  "How should a system respond when the evidence is incomplete or conflicting?",
			Baseline:  "The system should acknowledge the limitations of the available evidence, present multiple perspectives where relevant, and avoid drawing firm conclusions beyond what the data supports.",
			Augmented: "Report the conflict as a finding, not a failure: when sources disagree, the disagreement itself is often the most informative thing to report. Incomplete evidence demands provisional answers with visible seams, because conclusions labeled provisional get corrected faster. The one caution is weight: both-sides framing becomes its own distortion when the evidence clearly favors one side, so state the balance as you see it.",
			ContextBullets: []string{
				"Conflicting evidence is a finding, not a failure.",
				"Incomplete evidence demands provisional answers with visible seams.",
			},
		},
	}
}
