package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/model"
)

var (
	flagPersonName       string
	flagPersonBirthYear  int
	flagPersonRole       string
	flagPersonSchoolAge  int
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List and edit family members",
	RunE:  runPeopleList,
}

var peopleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a family member",
	RunE:  runPeopleAdd,
}

var peopleRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a family member by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeopleRemove,
}

func init() {
	peopleAddCmd.Flags().StringVar(&flagPersonName, "name", "", "Person name (required)")
	peopleAddCmd.Flags().IntVar(&flagPersonBirthYear, "birth-year", 0, "Birth year; future years mean a planned child (required)")
	peopleAddCmd.Flags().StringVar(&flagPersonRole, "role", "child", "Role: self, partner, child, relative")
	peopleAddCmd.Flags().IntVar(&flagPersonSchoolAge, "school-start-age", 0, "School start age for children (default 5)")
	_ = peopleAddCmd.MarkFlagRequired("name")
	_ = peopleAddCmd.MarkFlagRequired("birth-year")

	peopleCmd.AddCommand(peopleAddCmd, peopleRemoveCmd)
	rootCmd.AddCommand(peopleCmd)
}

func runPeopleList(_ *cobra.Command, _ []string) error {
	store, _ := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(plan.People))
	for _, p := range plan.People {
		school := ""
		if p.Role == model.RoleChild {
			age := p.SchoolStartAge
			if age <= 0 {
				age = model.DefaultSchoolStartAge
			}
			school = fmt.Sprintf("%d", age)
		}
		rows = append(rows, []string{p.ID, p.Name, string(p.Role), fmt.Sprintf("%d", p.BirthYear), school})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "People",
		Headers: []string{"ID", "Name", "Role", "Born", "School"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runPeopleAdd(_ *cobra.Command, _ []string) error {
	role := model.Role(flagPersonRole)
	switch role {
	case model.RoleSelf, model.RolePartner, model.RoleChild, model.RoleRelative:
	default:
		return fmt.Errorf("unknown role %q", flagPersonRole)
	}

	store, _ := openStore()
	person := model.Person{
		ID:             model.NewID("person"),
		Name:           flagPersonName,
		BirthYear:      flagPersonBirthYear,
		Role:           role,
		SchoolStartAge: flagPersonSchoolAge,
	}

	if _, err := store.Mutate(func(p *model.Plan) error {
		p.People = append(p.People, person)
		return nil
	}); err != nil {
		return err
	}

	fmt.Printf("  Added %s (%s)\n", person.Name, person.ID)
	return nil
}

func runPeopleRemove(_ *cobra.Command, args []string) error {
	id := args[0]
	store, _ := openStore()

	removed := false
	if _, err := store.Mutate(func(p *model.Plan) error {
		kept := p.People[:0]
		for _, person := range p.People {
			if person.ID == id {
				removed = true
				continue
			}
			kept = append(kept, person)
		}
		p.People = kept
		return nil
	}); err != nil {
		return err
	}

	if !removed {
		return fmt.Errorf("no person with ID %q", id)
	}
	fmt.Printf("  Removed %s\n", id)
	return nil
}
