package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"igris/internal/config"
	"igris/internal/intent"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and extend the task catalogue",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogue tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolvePaths()
		store := intent.NewCatalogueStore(cataloguePath)
		defer store.Close()

		cat, err := store.Load()
		if err != nil {
			return err
		}
		if len(cat.Tasks) == 0 {
			fmt.Println("No tasks in catalogue.")
			return nil
		}
		tag, _ := cmd.Flags().GetString("tag")
		for _, t := range cat.Tasks {
			if tag != "" && !t.HasTag(tag) {
				continue
			}
			admin := ""
			if t.RequiresAdmin {
				admin = " [admin]"
			}
			fmt.Printf("%s%s\n  action:  %s\n  phrases: %s\n", t.Task, admin, t.Action, strings.Join(t.Phrases, "; "))
		}
		return nil
	},
}

var (
	learnTask    string
	learnPhrases []string
	learnAction  string
	learnAdmin   bool
	learnTags    []string
)

var tasksLearnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Add a task or new trigger phrases to the catalogue",
	Long: `Adds an entry to the catalogue. When an entry with the same action
already exists the phrases are merged into it instead.

Example:
  igris tasks learn --task reboot --phrase "restart computer" --action "shutdown /r" --admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if learnTask == "" || learnAction == "" || len(learnPhrases) == 0 {
			return fmt.Errorf("--task, --action, and at least one --phrase are required")
		}
		resolvePaths()
		store := intent.NewCatalogueStore(cataloguePath)
		defer store.Close()

		entry := config.CatalogueEntry{
			Task:          learnTask,
			Phrases:       learnPhrases,
			Action:        learnAction,
			RequiresAdmin: learnAdmin,
			Tags:          learnTags,
		}
		if err := store.Learn(entry); err != nil {
			return err
		}
		fmt.Printf("Learned %q -> %s\n", learnTask, learnAction)
		return nil
	},
}

func init() {
	tasksListCmd.Flags().String("tag", "", "only list tasks carrying this tag")

	tasksLearnCmd.Flags().StringVar(&learnTask, "task", "", "task name")
	tasksLearnCmd.Flags().StringArrayVar(&learnPhrases, "phrase", nil, "trigger phrase (repeatable)")
	tasksLearnCmd.Flags().StringVar(&learnAction, "action", "", "shell command or plugin:<name> reference")
	tasksLearnCmd.Flags().BoolVar(&learnAdmin, "admin", false, "require admin confirmation")
	tasksLearnCmd.Flags().StringArrayVar(&learnTags, "tag", nil, "tag (repeatable)")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksLearnCmd)
}
