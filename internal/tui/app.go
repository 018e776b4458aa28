package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/practicetestbulk/client/internal/generator"
	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/usage"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultQuestionCount = "10"

type appScreen struct {
	ctx  context.Context
	b    *binding
	page *pages.App

	form         *form
	workingTitle *textControl
	testTitle    *textControl
	category     *choiceControl
	objectives   []*textControl
	requirements *textControl
	audience     *textControl
	difficulty   *choiceControl
	numQuestions *textControl
	formats      *multiControl
	explanation  *choiceControl

	usage  *pages.UsageSnapshot
	prompt *usage.Prompt
	bar    progress.Model
	busy   busyState
}

func newAppScreen(ctx context.Context, deps *pages.Deps, b *binding) *appScreen {
	s := &appScreen{
		ctx:          ctx,
		b:            b,
		page:         pages.NewApp(deps, b),
		workingTitle: newTextControl("Working title", "e.g. Go Basics", generator.WorkingTitleMaxLen),
		testTitle:    newTextControl("Practice test title", "", 200),
		category:     newChoiceControl("Category", generator.Categories, generator.Categories[0]),
		requirements: newTextControl("Requirements", generator.DefaultRequirements, 500),
		audience:     newTextControl("Target audience", generator.DefaultAudience, 500),
		difficulty:   newChoiceControl("Difficulty", generator.DifficultyLevels, "intermediate"),
		numQuestions: newTextControl("Number of questions", "", 4),
		formats:      newMultiControl("Question formats", generator.QuestionFormats, generator.DefaultFormat),
		explanation:  newChoiceControl("Explanation style", generator.ExplanationStyles, generator.ExplanationStyles[0]),
		bar:          progress.New(progress.WithSolidFill(string(colorPurple)), progress.WithoutPercentage(), progress.WithWidth(40)),
		busy:         newBusyState(),
	}
	s.numQuestions.SetValue(defaultQuestionCount)

	controls := []control{s.workingTitle, s.testTitle, s.category}
	for range generator.MinObjectives {
		c := s.newObjective()
		s.objectives = append(s.objectives, c)
		controls = append(controls, c)
	}
	controls = append(controls, s.requirements, s.audience, s.difficulty, s.numQuestions, s.formats, s.explanation)

	s.form = newForm(controls...)

	return s
}

func (s *appScreen) newObjective() *textControl {
	n := len(s.objectives) + 1
	return newTextControl(fmt.Sprintf("Objective %d", n), "", generator.ObjectiveMaxLength)
}

// adds one more objective row after the last one, up to the maximum
func (s *appScreen) addObjective() bool {
	if len(s.objectives) >= generator.MaxObjectives {
		return false
	}

	// rows before the objectives: working title, test title, category
	at := 3 + len(s.objectives)

	c := s.newObjective()
	s.objectives = append(s.objectives, c)
	s.form.insert(at, c)

	return true
}

// current field values as collected from the controls
func (s *appScreen) values() generator.Form {
	objectives := make([]string, 0, len(s.objectives))
	for _, o := range s.objectives {
		objectives = append(objectives, o.Value())
	}

	return generator.Form{
		WorkingTitle:       s.workingTitle.Value(),
		PracticeTestTitle:  s.testTitle.Value(),
		Category:           s.category.Value(),
		LearningObjectives: objectives,
		Requirements:       s.requirements.Value(),
		TargetAudience:     s.audience.Value(),
		DifficultyLevel:    s.difficulty.Value(),
		NumQuestions:       s.numQuestions.Value(),
		QuestionFormats:    s.formats.Values(),
		ExplanationStyle:   s.explanation.Value(),
	}
}

func (s *appScreen) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, action(s.ctx, s.b.id, s.page.Load))
}

func (s *appScreen) submit() tea.Cmd {
	s.prompt = nil
	form := s.values()

	return tea.Batch(s.busy.start("Generating questions..."), action(s.ctx, s.b.id, func(ctx context.Context) error {
		_, err := s.page.Submit(ctx, form)
		return err
	}))
}

func (s *appScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.busy.update(msg); cmd != nil {
		return cmd
	}

	switch msg := msg.(type) {
	case usageMsg:
		snap := msg.snapshot
		s.usage = &snap
		return nil

	case promptMsg:
		p := msg.prompt
		s.prompt = &p
		return nil

	case tea.KeyMsg:
		if s.busy.busy {
			return nil
		}

		if s.prompt != nil && s.prompt.OfferUpgrade {
			switch msg.String() {
			case "y":
				s.prompt = nil
				return action(s.ctx, s.b.id, func(ctx context.Context) error {
					s.page.Upgrade(ctx)
					return nil
				})
			case "n", "esc":
				s.prompt = nil
				return nil
			}
		}

		switch msg.String() {
		case "ctrl+s":
			return s.submit()
		case "enter":
			if s.form.onLast() {
				return s.submit()
			}
			return s.form.move(1)
		case "ctrl+n":
			s.addObjective()
			return nil
		case "ctrl+u":
			return action(s.ctx, s.b.id, func(ctx context.Context) error {
				s.page.Upgrade(ctx)
				return nil
			})
		case "ctrl+o":
			return action(s.ctx, s.b.id, s.page.Logout)
		case "ctrl+r":
			return action(s.ctx, s.b.id, s.page.Load)
		}
	}

	return s.form.Update(msg)
}

func (s *appScreen) usageView(width int) string {
	if s.usage == nil {
		return infoStyle.Render("loading usage...")
	}

	u := s.usage

	var remaining string
	switch {
	case !u.Known:
		remaining = "usage unavailable"
	case u.Unlimited && u.Remaining == 0:
		remaining = "unlimited"
	default:
		remaining = usage.FormatNumber(u.Remaining) + " left"
	}

	badge := badgeStyle.Background(bandColor(u.BadgeBand)).Render(u.TierLabel + " | " + remaining)
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.UnsetMargins().Render("Hi, "+u.Username), " ", badge,
		menuDescStyle.Render("ctrl+u: "+u.UpgradeLabel))

	if !u.ShowBanner {
		return header
	}

	bar := s.bar
	bar.Width = min(max(width-30, 10), 60)
	bar.FullColor = string(bandColor(u.ProgressBand))

	banner := bannerStyle.BorderForeground(bandColor(u.ProgressBand)).Render(
		u.UsageText + "\n" + bar.ViewAs(float64(u.Percent)/100) + " " + strconv.Itoa(u.Percent) + "%")

	return header + "\n" + banner
}

func (s *appScreen) View(width int) string {
	var b strings.Builder

	b.WriteString(s.usageView(width))
	b.WriteString("\n\n")

	if s.prompt != nil && s.prompt.Message != "" {
		text := s.prompt.Message
		if s.prompt.OfferUpgrade {
			text += "\n\nView plans now? (y/n)"
		}
		b.WriteString(boxStyle.BorderForeground(colorYellow).Render(text))
		b.WriteString("\n\n")
	}

	b.WriteString(s.form.View())
	b.WriteString("\n")
	b.WriteString(s.busy.view())

	help := "[tab/shift+tab: move] [←/→: choose] [space: toggle] [ctrl+n: add objective] [ctrl+s: generate] [ctrl+r: refresh] [ctrl+o: log out]"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}
