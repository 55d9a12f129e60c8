// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the create-phobos command line interface.
//
// The root command creates a project; "config" manages the user
// configuration file. Every handler receives an *App, the composition root
// holding the configuration provider, prompter, installer and filesystem.
package cmd
