package provider

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

func TestAccComputerDataSource_ByDN(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_computer" "dc" {
  distinguished_name = "CN=DC01,OU=Domain Controllers,DC=example,DC=local"
}

data "dsamac_computer" "ws" {
  distinguished_name = "CN=WS-0042,OU=Workstations,OU=Corporate,DC=example,DC=local"
}
`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.dsamac_computer.dc", "name", "DC01"),
					resource.TestCheckResourceAttr("data.dsamac_computer.dc", "role", "domain_controller"),
					resource.TestCheckResourceAttr("data.dsamac_computer.dc", "trusted_for_delegation", "true"),
					resource.TestCheckResourceAttr("data.dsamac_computer.ws", "role", "workstation"),
					resource.TestCheckResourceAttr("data.dsamac_computer.ws", "enabled", "true"),
				),
			},
		},
	})
}
