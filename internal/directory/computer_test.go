package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputerRole(t *testing.T) {
	tests := map[string]struct {
		uac      string
		os       string
		expected ComputerRole
	}{
		"domain controller":          {uac: "532480", os: "Windows Server 2022 Standard", expected: RoleDomainController},
		"member server":              {uac: "4096", os: "Windows Server 2019 Datacenter", expected: RoleServer},
		"server without trust bit":   {os: "windows server 2016", expected: RoleServer},
		"workstation":                {uac: "4096", os: "Windows 11 Enterprise", expected: RoleWorkstation},
		"workstation trust only":     {uac: "4096", expected: RoleWorkstation},
		"named os without uac":       {os: "macOS", expected: RoleWorkstation},
		"nothing known":              {expected: RoleUnknown},
		"unparsable account control": {uac: "dc", expected: RoleUnknown},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			attrs := Attributes{}
			if tt.uac != "" {
				attrs["dsAttrTypeNative:userAccountControl"] = []string{tt.uac}
			}
			if tt.os != "" {
				attrs["dsAttrTypeNative:operatingSystem"] = []string{tt.os}
			}

			computer, err := BuildComputer(attrs, "HOST$", "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, computer.Role())
		})
	}
}

func TestBuildComputer(t *testing.T) {
	attrs := Attributes{
		"RecordName":                              {"WS-042$"},
		"dsAttrTypeNative:dNSHostName":            {"ws-042.example.local"},
		"dsAttrTypeNative:operatingSystem":        {"Windows 11 Enterprise"},
		"dsAttrTypeNative:operatingSystemVersion": {"10.0 (22631)"},
		"dsAttrTypeNative:userAccountControl":     {"528384"}, // 0x81000
		"dsAttrTypeNative:logonCount":             {"17"},
		"dsAttrTypeNative:memberOf":               {"CN=Workstations,OU=Groups,DC=example,DC=local"},
	}

	computer, err := BuildComputer(attrs, "", "computers")
	require.NoError(t, err)

	assert.Equal(t, "WS-042", computer.Name, "trailing $ is dropped from the display name")
	assert.Equal(t, "WS-042$", computer.SAMAccountName)
	assert.Equal(t, "ws-042.example.local", computer.DNSHostName)
	assert.Equal(t, "10.0 (22631)", computer.OperatingSystemVersion)
	assert.Equal(t, RoleWorkstation, computer.Role())
	assert.True(t, computer.TrustedForDelegation())
	assert.True(t, computer.IsEnabled())
	require.NotNil(t, computer.LogonCount)
	assert.Equal(t, int64(17), *computer.LogonCount)
	assert.Equal(t, "computers", computer.ContainerID)

	_, err = BuildComputer(Attributes{}, "", "")
	assert.ErrorIs(t, err, ErrMissingAccountName)
}
