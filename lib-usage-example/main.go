package main

import (
	"fmt"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
	"github.com/harmonyedit/assetcat/pkg/filter"
)

// Drives the filter engine directly, without the CLI or the database.
func main() {
	roots := []catalog.Category{
		{ID: "props", Name: "Props", Children: []catalog.Category{
			{ID: "furniture", Name: "Furniture"},
			{ID: "decor", Name: "Decor"},
		}},
	}

	list := []assets.Asset{
		{ID: "a1", Name: "Oak Chair", Type: "model", CategoryID: "furniture",
			SeriesName: "Cottage", SizeCategory: "M", Tags: []string{"wood"}},
		{ID: "a2", Name: "Pine Table", Type: "model", CategoryID: "furniture",
			SizeCategory: "L", Tags: []string{"wood"}},
		{ID: "a3", Name: "Clay Vase", Type: "model", CategoryID: "decor",
			SizeCategory: "S", Tags: []string{"ceramic"}},
	}

	v := filter.NewView()
	if err := v.ReplaceCatalog(roots); err != nil {
		panic(err)
	}
	v.ReplaceAssets(list)

	// Narrow to the furniture category, then to wooden assets.
	v.SelectCategory("furniture")
	v.ToggleTag("wood")

	for _, a := range v.Assets() {
		fmt.Println(a.Name, a.SizeCategory)
	}

	// The option lists are contextual: only values reachable from the
	// current result set are offered.
	for _, o := range v.SizeOptions() {
		fmt.Println("size option:", o.Label)
	}
}
