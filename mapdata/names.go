package mapdata

import "fmt"

// CreateCloneName derives a unique name for a cloned entity. It first tries
// "<name> (Clone)", then "<name> (Clone #2)", "<name> (Clone #3)" and so on
// until a name not present in taken is found.
func CreateCloneName(name string, taken []string) string {
	candidate := name + " (Clone)"
	for number := 2; nameTaken(candidate, taken); number++ {
		candidate = fmt.Sprintf("%s (Clone #%d)", name, number)
	}
	return candidate
}

func nameTaken(name string, taken []string) bool {
	for _, t := range taken {
		if t == name {
			return true
		}
	}
	return false
}
