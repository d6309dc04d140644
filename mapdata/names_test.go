package mapdata

import "testing"

var cloneNameTests = []struct {
	in_name  string
	in_taken []string
	out_name string
}{
	{"Ground", nil, "Ground (Clone)"},
	{"Ground", []string{"Ground"}, "Ground (Clone)"},
	{"Ground", []string{"Ground", "Ground (Clone)"}, "Ground (Clone #2)"},
	{"Ground", []string{"Ground", "Ground (Clone)", "Ground (Clone #2)"}, "Ground (Clone #3)"},
	{"Ground", []string{"Ground (Clone)", "Ground (Clone #3)"}, "Ground (Clone #2)"},
	{"Ground (Clone)", []string{"Ground (Clone)"}, "Ground (Clone) (Clone)"},
	{"", []string{" (Clone)"}, " (Clone #2)"},
}

func TestCreateCloneName(t *testing.T) {
	for _, test := range cloneNameTests {
		result := CreateCloneName(test.in_name, test.in_taken)
		if result != test.out_name {
			t.Errorf("CreateCloneName(%q,%v)=%q; expected %q", test.in_name, test.in_taken, result, test.out_name)
		}
	}
}
