package hestia

import (
	"io/ioutil"
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
)

type UtilsSuite struct {
	tmpDir string
}

var _ = Suite(&UtilsSuite{})

func (s *UtilsSuite) SetUpSuite(c *C) {
	var err error
	s.tmpDir, err = ioutil.TempDir("", "hestia-utils-tests")
	c.Check(err, IsNil)
}

func (s *UtilsSuite) TearDownSuite(c *C) {
	c.Check(os.RemoveAll(s.tmpDir), IsNil)
}

func (s *UtilsSuite) TestNumberedFilename(c *C) {
	testdata := []struct {
		Base     string
		i        uint
		Expected string
	}{
		{"field.txt", 0, "field.txt"},
		{"run.field.2.txt", 3, "run.field.3.txt"},
		{"../some/path/field.42.txt", 2, "../some/path/field.2.txt"},
		{"../some/path/field.42.txt", 0, "../some/path/field.txt"},
		{"v1.0/field.txt", 1, "v1.0/field.1.txt"},
		{"report.0.txt", 2, "report.0.2.txt"},
		{"field", 1, "field.1"},
	}

	for _, d := range testdata {
		c.Check(numberedFilename(d.Base, d.i), Equals, d.Expected, Commentf("%+v", d))
	}
}

func (s *UtilsSuite) TestWriteField(c *C) {
	f, err := NewFieldFromRows([][]float64{{295.5, 296}, {280, 300.125}})
	c.Assert(err, IsNil)

	name, err := WriteField(filepath.Join(s.tmpDir, "field.txt"), f)
	c.Assert(err, IsNil)
	c.Check(name, Equals, filepath.Join(s.tmpDir, "field.txt"))
	content, err := ioutil.ReadFile(name)
	c.Assert(err, IsNil)
	c.Check(string(content), Equals, "295.5000 296.0000\n280.0000 300.1250\n")

	name, err = WriteField(filepath.Join(s.tmpDir, "field.txt"), f)
	c.Assert(err, IsNil)
	c.Check(name, Equals, filepath.Join(s.tmpDir, "field.1.txt"))
}
