package provider

import (
	"regexp"
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

func TestAccDirectoryDataSource(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_directory" "test" {
  reload = true
}
`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.dsamac_directory.test", "backend", "demo"),
					resource.TestCheckResourceAttr("data.dsamac_directory.test", "state", "ready"),
					resource.TestCheckResourceAttr("data.dsamac_directory.test", "needs_manual_configuration", "false"),
					resource.TestCheckResourceAttr("data.dsamac_directory.test", "error_message", ""),
					resource.TestCheckResourceAttr("data.dsamac_directory.test", "container_count", "7"),
					resource.TestCheckResourceAttr("data.dsamac_directory.test", "user_count", "4"),
					resource.TestCheckResourceAttr("data.dsamac_directory.test", "group_count", "3"),
					resource.TestCheckResourceAttr("data.dsamac_directory.test", "computer_count", "3"),
					resource.TestCheckResourceAttrSet("data.dsamac_directory.test", "loaded_at"),
				),
			},
		},
	})
}

func TestAccProvider_InvalidBackend(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: `
provider "dsamac" {
  backend = "carrier_pigeon"
}

data "dsamac_directory" "test" {}
`,
				ExpectError: regexp.MustCompile(`Invalid Attribute Value`),
			},
		},
	})
}
