package provider

import (
	"regexp"
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

func TestAccUserDataSource_ByDN(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_user" "test" {
  distinguished_name = "CN=John Doe,OU=Staff,OU=Corporate,DC=example,DC=local"
}
`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttrSet("data.dsamac_user.test", "id"),
					resource.TestCheckResourceAttr("data.dsamac_user.test", "sam_account_name", "jdoe"),
					resource.TestCheckResourceAttr("data.dsamac_user.test", "department", "HR"),
					resource.TestCheckResourceAttr("data.dsamac_user.test", "user_account_control", "512"),
					resource.TestCheckResourceAttr("data.dsamac_user.test", "enabled", "true"),
					resource.TestCheckResourceAttr("data.dsamac_user.test", "locked_out", "false"),
					resource.TestCheckResourceAttr("data.dsamac_user.test", "member_of.#", "2"),
				),
			},
		},
	})
}

func TestAccUserDataSource_ByID(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_search" "locked" {
  query = "cmartin"
  kinds = ["user"]
}

data "dsamac_user" "test" {
  id = data.dsamac_search.locked.results[0].id
}
`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.dsamac_user.test", "sam_account_name", "cmartin"),
					resource.TestCheckResourceAttr("data.dsamac_user.test", "locked_out", "true"),
					resource.TestCheckResourceAttr("data.dsamac_user.test", "must_change_password", "true"),
					resource.TestCheckResourceAttrSet("data.dsamac_user.test", "lockout_time"),
				),
			},
		},
	})
}

func TestAccUserDataSource_NotFound(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_user" "test" {
  distinguished_name = "CN=Nobody,OU=Staff,OU=Corporate,DC=example,DC=local"
}
`,
				ExpectError: regexp.MustCompile(`User Not Found`),
			},
			{
				Config: testAccDemoProviderConfig + `
data "dsamac_user" "test" {
  id                 = "anything"
  distinguished_name = "CN=John Doe,OU=Staff,OU=Corporate,DC=example,DC=local"
}
`,
				ExpectError: regexp.MustCompile(`Invalid Attribute Combination`),
			},
		},
	})
}
