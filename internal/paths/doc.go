// Package paths centralizes the file names, directories and path checks
// shared by the manifest loader, the installer and the CLI.
//
// # XDG Base Directory Compliance
//
// The tool's own settings live under the XDG config home, resolved through
// github.com/adrg/xdg:
//
//	paths.ConfigDir() // ~/.config/skill-thief on Linux
//
// # Project Files
//
// The project manifest is [ManifestFilename] in the working directory and
// skills are installed under [DefaultInstallPath] unless the manifest says
// otherwise. Every installed skill is expected to carry a [SkillFile].
//
// # Name Checks
//
// Skill names are used verbatim as directory names under the install base.
// [ValidSkillName] and [ValidSubdir] reject values that would escape it.
package paths
