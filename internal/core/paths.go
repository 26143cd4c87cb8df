package core

import (
	"strings"

	"github.com/comalice/activestate/internal/primitives"
)

// computeLCCA returns the least common ancestor path of source and target paths.
func computeLCCA(sourcePath, targetPath string) string {
	if sourcePath == "" || targetPath == "" {
		return ""
	}
	source := strings.Split(sourcePath, ".")
	target := strings.Split(targetPath, ".")

	minLen := len(source)
	if len(target) < minLen {
		minLen = len(target)
	}

	lcaIndex := 0
	for lcaIndex < minLen && source[lcaIndex] == target[lcaIndex] {
		lcaIndex++
	}

	if lcaIndex == 0 {
		return "" // No common ancestor
	}

	return strings.Join(source[:lcaIndex], ".")
}

// getAncestors returns all ancestor paths of a path, outermost first (including self).
func getAncestors(path string) []string {
	if path == "" {
		return nil
	}
	segments := strings.Split(path, ".")
	ancestors := make([]string, len(segments))

	current := ""
	for i, seg := range segments {
		if current != "" {
			current += "."
		}
		current += seg
		ancestors[i] = current
	}
	return ancestors
}

// depth returns the number of segments in path.
func depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, ".") + 1
}

// getExitStates returns the states left when moving from sourcePath up to lccaPath, innermost first.
func getExitStates(sourcePath, lccaPath string) []string {
	ancestors := getAncestors(sourcePath)
	min := depth(lccaPath)
	var paths []string
	for i := len(ancestors) - 1; i >= min; i-- {
		paths = append(paths, ancestors[i])
	}
	return paths
}

// getEntryStates returns the states entered when moving from lccaPath down to targetPath, outermost first.
func getEntryStates(lccaPath, targetPath string) []string {
	ancestors := getAncestors(targetPath)
	min := depth(lccaPath)
	if min >= len(ancestors) {
		return nil
	}
	return append([]string(nil), ancestors[min:]...)
}

// precomputePaths recursively traverses the state hierarchy starting from a state with given prefix.
// Builds stateCache[path] = stateConfig and defaultsCache[path] = inherited param defaults.
func precomputePaths(state *primitives.StateConfig, prefix string, inherited map[string]any, stateCache map[string]*primitives.StateConfig, defaultsCache map[string]map[string]any) {
	fullpath := prefix
	if prefix != "" {
		fullpath += "."
	}
	fullpath += state.ID

	stateCache[fullpath] = state

	defaults := make(map[string]any, len(inherited)+len(state.Params))
	for k, v := range inherited {
		defaults[k] = v
	}
	for k, v := range state.Params {
		defaults[k] = v
	}
	defaultsCache[fullpath] = defaults

	for _, child := range state.Children {
		precomputePaths(child, fullpath, defaults, stateCache, defaultsCache)
	}
}
