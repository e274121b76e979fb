package provider

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

func TestAccContainersDataSource_All(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_containers" "test" {}
`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "id", "all"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.#", "7"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.0.name", "example.local"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.0.depth", "0"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.0.parent_id", ""),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.0.child_ids.#", "2"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.1.name", "Domain Controllers"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.2.name", "Corporate"),
				),
			},
		},
	})
}

func TestAccContainersDataSource_Subtree(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_containers" "all" {}

data "dsamac_containers" "test" {
  root_id = one([for c in data.dsamac_containers.all.containers : c.id if c.name == "Corporate"])
}
`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.#", "5"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.0.name", "Corporate"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.0.depth", "1"),
					resource.TestCheckResourceAttr("data.dsamac_containers.test", "containers.1.depth", "2"),
				),
			},
		},
	})
}
