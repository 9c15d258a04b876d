package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/progress"
	"github.com/apresai/ikigen/internal/reflection"
	"github.com/apresai/ikigen/internal/share"
	"github.com/apresai/ikigen/internal/tone"
)

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Answer the four Ikigai questions and get insights, a summary and a share post",
	Long: `Walks through what you love, what you are good at, what the world needs
and what you can be paid for. Answers come from --answers (a JSON file with
love, goodAt, worldNeeds and paidFor) or from an interactive wizard.`,
	RunE: runReflect,
}

var (
	flagAnswers string
	flagSaveDir string
)

func init() {
	reflectCmd.Flags().StringVarP(&flagAnswers, "answers", "a", "", "JSON file with the four answers (skips the wizard)")
	reflectCmd.Flags().StringVar(&flagSaveDir, "save", "", "Directory to save the finished reflection in")
}

// reflectOutcome is everything a reflection run produces.
type reflectOutcome struct {
	Session *reflection.Session
	Post    share.Post
	SavedTo string
}

func runReflect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var data reflection.Data
	var err error
	if flagAnswers != "" {
		data, err = readAnswers(flagAnswers)
	} else {
		data, err = runWizard(reflection.Data{})
	}
	if err != nil {
		return err
	}

	keys := apiKeys()
	gen, err := insight.NewGenerator(ctx, flagModel, keys)
	if err != nil {
		return err
	}
	toneGen, err := insight.NewGenerator(ctx, flagToneModel, keys)
	if err != nil {
		slog.Warn("Tone model unavailable, share post uses rule-based rewrite", "model", flagToneModel, "error", err)
		toneGen = nil
	}
	svc := insight.NewService(gen, toneGen, slog.Default())

	var adj share.ToneAdjuster
	if toneGen != nil {
		adj = tone.NewEnhancer(svc, tone.DefaultTimeout, slog.Default())
	}
	composer := share.NewComposer(share.NewSelector(share.Templates{}, nil), adj, slog.Default())

	var store reflection.Store
	if flagSaveDir != "" {
		if store, err = reflection.NewFileStore(flagSaveDir); err != nil {
			return err
		}
	}

	r := progress.NewBarRenderer(os.Stderr)
	out, err := runReflection(ctx, data, svc, composer, store, r.Handle)
	r.Finish()
	if err != nil {
		return err
	}
	return printReflection(cmd.OutOrStdout(), out)
}

// runReflection generates the four step insights and the summary, then
// composes the share post from the summary. The session is saved to store
// when one is given.
func runReflection(ctx context.Context, data reflection.Data, svc *insight.Service, composer *share.Composer, store reflection.Store, onProgress progress.Callback) (*reflectOutcome, error) {
	if !data.Complete() {
		return nil, fmt.Errorf("all four answers are required")
	}
	if onProgress == nil {
		onProgress = progress.NopCallback
	}
	start := time.Now()

	var sess *reflection.Session
	var err error
	if store != nil {
		sess, err = store.Create(ctx)
	} else {
		sess, err = reflection.NewSession()
	}
	if err != nil {
		return nil, err
	}
	sess.Data = data

	total := len(reflection.Steps)
	for i, step := range reflection.Steps {
		onProgress(progress.StepEvent(progress.Stage(step.ID), "Reflecting on "+step.Title, i+1, total, start))
		answer, _ := data.Get(step.ID)
		res, err := svc.Insight(ctx, insight.Request{Input: answer, Context: step.Title, Question: step.Question})
		if err != nil {
			onProgress(progress.Event{Stage: progress.Stage(step.ID), Error: err})
			return nil, fmt.Errorf("%s insight: %w", step.ID, err)
		}
		if err := sess.SetInsight(step.ID, res.Summary); err != nil {
			return nil, err
		}
	}

	onProgress(progress.NewEvent(progress.StageSummary, "Distilling your Ikigai", 0.75, start))
	res, err := svc.Insight(ctx, insight.Request{
		Input:    data.SummaryInput(),
		Context:  insight.ContextSummary,
		Question: reflection.SummaryQuestion,
	})
	if err != nil {
		onProgress(progress.Event{Stage: progress.StageSummary, Error: err})
		return nil, fmt.Errorf("summary: %w", err)
	}
	ikigai := res.Summary
	if res.Structured != nil {
		sess.Summary = res.Structured
		ikigai = res.Structured.Ikigai
	} else {
		sess.Summary = &insight.Summary{Ikigai: res.Summary}
	}

	onProgress(progress.NewEvent(progress.StageShare, "Composing share post", 0.9, start))
	post := composer.Build(ctx, ikigai)
	sess.UpdatedAt = time.Now().UTC()

	out := &reflectOutcome{Session: sess, Post: post}
	if store != nil {
		if err := store.Save(ctx, sess); err != nil {
			return nil, err
		}
		if fs, ok := store.(*reflection.FileStore); ok {
			out.SavedTo = fs.Path(sess.ID)
		}
	}

	done := progress.NewEvent(progress.StageComplete, "Reflection complete", 1.0, start)
	done.Ikigai = ikigai
	done.SavedTo = out.SavedTo
	onProgress(done)
	return out, nil
}

func readAnswers(path string) (reflection.Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return reflection.Data{}, fmt.Errorf("read answers: %w", err)
	}
	var d reflection.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return reflection.Data{}, fmt.Errorf("parse answers %s: %w", path, err)
	}
	if !d.Complete() {
		return reflection.Data{}, fmt.Errorf("answers file %s must fill love, goodAt, worldNeeds and paidFor", path)
	}
	return d, nil
}

func printReflection(w io.Writer, out *reflectOutcome) error {
	sess := out.Session
	for _, step := range reflection.Steps {
		fmt.Fprintf(w, "%s\n  %s\n\n", titleStyle.Render(step.Title), sess.Insights[step.ID])
	}
	if sess.Summary != nil {
		fmt.Fprintf(w, "%s\n  %s\n", titleStyle.Render("Your Ikigai"), sess.Summary.Ikigai)
		if sess.Summary.Meaning != "" {
			fmt.Fprintf(w, "\n  %s\n", sess.Summary.Meaning)
		}
		for _, s := range sess.Summary.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n%s\n", titleStyle.Render("Share post"), out.Post, share.LinkedInURL(""))
	return err
}
