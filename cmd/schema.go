package cmd

import (
	"fmt"
	"os"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/bank"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type entityDoc struct {
	Name         string     `yaml:"name"`
	Dataset      string     `yaml:"dataset"`
	IDSpace      spaceDoc   `yaml:"id_space"`
	Dependencies []string   `yaml:"dependencies,omitempty"`
	BulkVolume   string     `yaml:"bulk_volume"`
	Fields       []fieldDoc `yaml:"fields"`
}

type spaceDoc struct {
	Base     int64 `yaml:"base"`
	Capacity int64 `yaml:"capacity"`
}

type fieldDoc struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	References string   `yaml:"references,omitempty"`
	Values     []string `yaml:"values,omitempty"`
}

func describe(cat *entity.Catalog) []entityDoc {
	docs := make([]entityDoc, 0, len(cat.Order()))
	for _, d := range cat.All() {
		doc := entityDoc{
			Name:       d.Type().String(),
			Dataset:    d.Type().Dataset() + ".csv",
			IDSpace:    spaceDoc{Base: d.IDSpace().Base, Capacity: d.IDSpace().Capacity},
			BulkVolume: d.BulkVolume().String(),
		}
		for _, dep := range d.Dependencies() {
			doc.Dependencies = append(doc.Dependencies, dep.String())
		}
		for _, f := range d.Schema().Fields {
			fd := fieldDoc{Name: f.Name, Kind: f.Kind.String(), Values: f.Values}
			if f.Kind == entity.KindForeignKey {
				fd.References = f.Ref.String()
			}
			doc.Fields = append(doc.Fields, fd)
		}
		docs = append(docs, doc)
	}
	return docs
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the entity catalog as YAML",
	Long: `Print every entity in dependency order with its dataset file, reserved
ID space, dependencies, bulk volume and columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := bank.Catalog()
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()

		if err := enc.Encode(map[string]any{"entities": describe(catalog)}); err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
