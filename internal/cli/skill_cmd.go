package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/spf13/cobra"
)

// resolveSkill matches a skill by id or case-insensitive title prefix.
func resolveSkill(ctx context.Context, app *App, input string) (domain.Skill, error) {
	if s, err := app.Skills.Get(ctx, input); err == nil {
		return s, nil
	}
	lower := strings.ToLower(input)
	var matches []domain.Skill
	for _, s := range app.Skills.List(ctx) {
		if strings.HasPrefix(strings.ToLower(s.Title), lower) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Skill{}, fmt.Errorf("skill not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return domain.Skill{}, fmt.Errorf("skill %q is ambiguous (%d matches)", input, len(matches))
	}
}

func skillIndex(skills []domain.Skill) map[string]domain.Skill {
	idx := make(map[string]domain.Skill, len(skills))
	for _, s := range skills {
		idx[s.ID] = s
	}
	return idx
}

func newSkillsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "skills",
		Aliases: []string{"skill"},
		Short:   "Browse skills and track progress",
	}

	cmd.AddCommand(
		newSkillsListCmd(app),
		newSkillsShowCmd(app),
		newSkillsProgressCmd(app),
		newSkillsTabsCmd(app),
	)

	return cmd
}

func newSkillsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSkillList(app.Skills.List(cmd.Context())))
			return nil
		},
	}
}

func newSkillsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <skill>",
		Short: "Show a skill's rubric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSkill(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSkillDetail(s))
			return nil
		},
	}
}

func newSkillsProgressCmd(app *App) *cobra.Command {
	var stage int

	cmd := &cobra.Command{
		Use:   "progress <skill> <percent>",
		Short: "Set progress on a mastery stage or objective",
		Long: `Set progress on a skill. Mastery skills update --stage (default: the
current stage); objective skills update their single goal. Progress lives
only for this session.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := resolveSkill(ctx, app, args[0])
			if err != nil {
				return err
			}
			pct, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return fmt.Errorf("invalid percent %q", args[1])
			}

			var updated domain.Skill
			if s.Kind == domain.SkillObjective {
				updated, err = app.Skills.SetObjectiveProgress(ctx, s.ID, pct)
			} else {
				if !cmd.Flags().Changed("stage") {
					stage = min(s.CurrentStage(), len(s.Stages)-1)
				}
				updated, err = app.Skills.SetStageProgress(ctx, s.ID, stage, pct)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSkillDetail(updated))
			return nil
		},
	}

	cmd.Flags().IntVar(&stage, "stage", 0, "Mastery stage index")
	return cmd
}

func newSkillsTabsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "Manage open skill tabs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTabs(cmd, app)
		},
	}

	open := &cobra.Command{
		Use:   "open <skill>",
		Short: "Open a skill in a tab and focus it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSkill(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Skills.OpenTab(cmd.Context(), s.ID); err != nil {
				return err
			}
			return printTabs(cmd, app)
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close [skill]",
		Short: "Close a tab, or every unpinned tab with --unpinned",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			unpinned, _ := cmd.Flags().GetBool("unpinned")
			if unpinned {
				if err := app.Skills.CloseUnpinned(ctx); err != nil {
					return err
				}
				return printTabs(cmd, app)
			}
			if len(args) == 0 {
				return fmt.Errorf("skill is required unless --unpinned is set")
			}
			s, err := resolveSkill(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Skills.CloseTab(ctx, s.ID); err != nil {
				return err
			}
			return printTabs(cmd, app)
		},
	}
	closeCmd.Flags().Bool("unpinned", false, "Close every tab that is not pinned")

	pin := &cobra.Command{
		Use:   "pin <skill>",
		Short: "Pin or unpin a tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSkill(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			off, _ := cmd.Flags().GetBool("off")
			if err := app.Skills.PinTab(cmd.Context(), s.ID, !off); err != nil {
				return err
			}
			return printTabs(cmd, app)
		},
	}
	pin.Flags().Bool("off", false, "Unpin instead")

	move := &cobra.Command{
		Use:   "move <skill> <position>",
		Short: "Move a tab to a 0-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSkill(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			if err := app.Skills.MoveTab(cmd.Context(), s.ID, pos); err != nil {
				return err
			}
			return printTabs(cmd, app)
		},
	}

	cmd.AddCommand(open, closeCmd, pin, move)
	return cmd
}

func printTabs(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	tabs, err := app.Skills.Tabs(ctx)
	if err != nil {
		return err
	}
	active, err := app.Skills.ActiveTab(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSkillTabs(tabs, skillIndex(app.Skills.List(ctx)), active))
	return nil
}

func newCoachesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "coaches",
		Aliases: []string{"coach"},
		Short:   "List coaches",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCoachList(app.Coaches.Coaches(cmd.Context())))
			return nil
		},
	}
}

func newProgramCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "program [program-id]",
		Aliases: []string{"programs"},
		Short:   "Show coaching programs and their weekly milestones",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			programs := app.Coaches.Programs(ctx)
			if len(args) == 1 {
				programs = nil
				p, err := app.Coaches.Program(ctx, args[0])
				if err != nil {
					return err
				}
				programs = append(programs, p)
			}
			if len(programs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No programs."))
				return nil
			}

			out, err := renderPrograms(ctx, app, programs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	return cmd
}

func renderPrograms(ctx context.Context, app *App, programs []domain.CoachProgram) (string, error) {
	var parts []string
	for _, p := range programs {
		card, err := renderProgram(ctx, app, p)
		if err != nil {
			return "", err
		}
		parts = append(parts, card)
	}
	return strings.Join(parts, "\n\n"), nil
}

func renderProgram(ctx context.Context, app *App, p domain.CoachProgram) (string, error) {
	timeline, err := app.Coaches.Timeline(ctx, p.ID)
	if err != nil {
		return "", err
	}
	var coach *domain.Coach
	if c, err := app.Coaches.Coach(ctx, p.CoachID); err == nil {
		coach = &c
	}
	return formatter.FormatProgram(p, coach, timeline, app.now()), nil
}
