package provider

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

func TestAccSearchDataSource(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_search" "test" {
  query = "hr"
}
`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.dsamac_search.test", "result_count", "1"),
					resource.TestCheckResourceAttr("data.dsamac_search.test", "results.0.kind", "user"),
					resource.TestCheckResourceAttr("data.dsamac_search.test", "results.0.display_name", "John Doe"),
				),
			},
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_search" "test" {
  query = "hr"
  kinds = ["group", "computer"]
}
`,
				Check: resource.TestCheckResourceAttr("data.dsamac_search.test", "result_count", "0"),
			},
		},
	})
}
