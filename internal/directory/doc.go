/*
Package directory provides the decoding and aggregation core of the directory browser.

It turns raw attribute dumps produced by a directory backend into typed, immutable
records and rebuilds the organizational unit hierarchy from flat parent references.

# Architecture Overview

The package is organized into several core components:

  - Attribute parsing: ParseDictionary and ParseText normalize structured property
    dumps and indented colon-delimited text into Attributes
  - Field decoding: account control flags, group type, lockout state, FILETIME tick
    and generalized time timestamps, distinguished names, SIDs and GUIDs
  - Entity builders: BuildUser, BuildGroup and BuildComputer assemble one
    attribute map into a typed record
  - Tree building: BuildTree reconstructs a forest of ContainerNode values
  - Search: Search projects users, groups and computers into SearchResult values

# Decoding Policy

Attribute-level decode failures never abort an entity build. Missing or
unparsable values decode to safe defaults: an absent account control value
decodes as an enabled account, absent timestamps are nil, and unparsable text
lines are counted in ParseResult.Skipped rather than reported as errors. Only a
missing account name fails a build.

# Example Usage

	result := directory.ParseText(dump)
	user, err := directory.BuildUser(result.Attributes, "jdoe", containerID)
	if err != nil {
		return err
	}
	fmt.Println(user.SAMAccountName, user.IsEnabled())
*/
package directory
