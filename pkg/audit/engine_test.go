package audit

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctlsys/docaudit/pkg/manifest"
)

func auditLibrary(t *testing.T, lib *manifest.Library, config *Config) *Report {
	t.Helper()
	require.NoError(t, lib.Validate())

	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(lib, config, log).Run()
}

func findingsForCheck(report *Report, check string) []Finding {
	var out []Finding
	for _, f := range report.Findings {
		if f.Check == check {
			out = append(out, f)
		}
	}
	return out
}

func singleModule(functions []*manifest.Callable, classes []*manifest.Class) *manifest.Library {
	return &manifest.Library{
		Package: "control",
		Modules: []*manifest.Module{
			{Name: "control", Functions: functions, Classes: classes},
		},
	}
}

func TestRunClean(t *testing.T) {
	fn := &manifest.Callable{
		Name:   "lqr",
		Module: "control.statefbk",
		Doc: "Linear-quadratic regulator design.\n\n" +
			"Parameters\n----------\n" +
			"sys : LTI\n    Plant to be controlled.\n" +
			"Q, R : 2D array\n    Weighting matrices.\n\n" +
			"Returns\n-------\n" +
			"K : 2D array\n    State feedback gain.\n",
		Source: "def lqr(sys, Q, R):\n    return K\n",
		Params: []manifest.Param{
			{Name: "sys", Kind: manifest.KindPositional},
			{Name: "Q", Kind: manifest.KindKeyword},
			{Name: "R", Kind: manifest.KindKeyword},
		},
	}

	report := auditLibrary(t, singleModule([]*manifest.Callable{fn}, nil), nil)

	assert.Empty(t, report.Findings)
	assert.False(t, report.Failed())
	assert.Equal(t, 1, report.Summary.CallablesChecked)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "control", report.Package)
}

func TestRunMissingParameter(t *testing.T) {
	fn := &manifest.Callable{
		Name:   "place",
		Module: "control.statefbk",
		Doc: "Pole placement.\n\n" +
			"Parameters\n----------\n" +
			"sys : LTI\n    Plant.\n" +
			"K : 2D array\n    Desired gain.\n",
		Source: "def place(sys, K, method='YT'):\n    pass\n",
		Params: []manifest.Param{
			{Name: "sys", Kind: manifest.KindPositional},
			{Name: "K", Kind: manifest.KindPositional},
			{Name: "method", Kind: manifest.KindKeyword},
		},
	}

	report := auditLibrary(t, singleModule([]*manifest.Callable{fn}, nil), nil)

	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, "parameter-docs", f.Check)
	assert.Equal(t, SeverityError, f.Severity)
	assert.Equal(t, CategoryParameters, f.Category)
	assert.Equal(t, "place", f.Subject)
	assert.Contains(t, f.Message, "'method' not documented")
	assert.True(t, report.Failed())
	assert.Equal(t, 1, report.Summary.Errors)
}

func TestRunStyleWarnings(t *testing.T) {
	fn := &manifest.Callable{
		Name:   "lqe",
		Module: "control.stochsys",
		Doc: "Estimator design.\n\n" +
			"Parameters\n----------\n" +
			"sys : LTI\n    Plant.\n" +
			"gain: float\n    Documented without the space.\n\n" +
			"Returns\n-------\n" +
			"S: 2D array\n    Riccati solution.\n",
		Source: "def lqe(sys, gain):\n    pass\n",
		Params: []manifest.Param{
			{Name: "sys", Kind: manifest.KindPositional},
			{Name: "gain", Kind: manifest.KindKeyword},
		},
	}

	report := auditLibrary(t, singleModule([]*manifest.Callable{fn}, nil), nil)

	require.Len(t, report.Findings, 2)
	assert.Contains(t, report.Findings[0].Message, "'gain' docstring missing space before colon")
	assert.Contains(t, report.Findings[1].Message, "return value 'S' docstring missing space")
	for _, f := range report.Findings {
		assert.Equal(t, SeverityWarning, f.Severity)
		assert.Equal(t, CategoryStyle, f.Category)
	}
	assert.False(t, report.Failed())
	assert.Equal(t, 2, report.Summary.Warnings)
}

func TestRunDuplicateParameter(t *testing.T) {
	fn := &manifest.Callable{
		Name:   "rlocus",
		Module: "control.rlocus",
		Doc: "Root locus.\n\n" +
			"Parameters\n----------\n" +
			"gain : float\n    The gain.\n" +
			"sys : LTI\n    Plant.\n" +
			"gain : float\n    Documented again.\n",
		Source: "def rlocus(gain):\n    pass\n",
		Params: []manifest.Param{
			{Name: "gain", Kind: manifest.KindPositional},
		},
	}

	report := auditLibrary(t, singleModule([]*manifest.Callable{fn}, nil), nil)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, SeverityError, report.Findings[0].Severity)
	assert.Contains(t, report.Findings[0].Message, "'gain' documented twice")
}

func TestRunChecksumRegistry(t *testing.T) {
	doc := "Append systems.\n\n" +
		"Parameters\n----------\n" +
		"sys : LTI\n    Systems to append.\n"
	source := "def append(*sys):\n    pass\n"
	makeLib := func() *manifest.Library {
		return singleModule([]*manifest.Callable{{
			Name:   "append",
			Module: "control.bdalg",
			Doc:    doc,
			Source: source,
			Params: []manifest.Param{
				{Name: "sys", Kind: manifest.KindVarPositional},
			},
		}}, nil)
	}

	t.Run("registered hash matches", func(t *testing.T) {
		config := DefaultConfig()
		config.DocstringHashes = map[string]string{"append": contentHash(doc, source)}
		report := auditLibrary(t, makeLib(), config)
		assert.Empty(t, report.Findings)
	})

	t.Run("registered hash is stale", func(t *testing.T) {
		config := DefaultConfig()
		config.DocstringHashes = map[string]string{"append": "0123456789abcdef0123456789abcdef"}
		report := auditLibrary(t, makeLib(), config)

		require.Len(t, report.Findings, 1)
		f := report.Findings[0]
		assert.Equal(t, "docstring-checksum", f.Check)
		assert.Equal(t, SeverityError, f.Severity)
		assert.Equal(t, CategoryChecksum, f.Category)
		assert.Contains(t, f.Message, contentHash(doc, source))
	})

	t.Run("unregistered without variadic marker", func(t *testing.T) {
		report := auditLibrary(t, makeLib(), nil)

		require.Len(t, report.Findings, 1)
		assert.Equal(t, SeverityWarning, report.Findings[0].Severity)
		assert.Contains(t, report.Findings[0].Message, "'sys' takes variadic positional arguments")
	})
}

func TestRunKeywordRecovery(t *testing.T) {
	source := "def bode_plot(data, **kwargs):\n" +
		"    color = kwargs.pop('color', None)\n"
	makeFn := func(doc string) *manifest.Callable {
		return &manifest.Callable{
			Name:          "bode_plot",
			Module:        "control.freqplot",
			Doc:           doc,
			Source:        source,
			ExtraKeywords: []string{"grid"},
			Params: []manifest.Param{
				{Name: "data", Kind: manifest.KindPositional},
				{Name: "kwargs", Kind: manifest.KindVarKeyword},
			},
		}
	}

	t.Run("recovered keywords documented", func(t *testing.T) {
		doc := "Bode plot.\n\n" +
			"Parameters\n----------\n" +
			"data : FrequencyResponseData\n    Response to plot.\n" +
			"color : str\n    Line color.\n" +
			"grid : bool\n    Show grid.\n"
		report := auditLibrary(t, singleModule([]*manifest.Callable{makeFn(doc)}, nil), nil)
		assert.Empty(t, report.Findings)
	})

	t.Run("recovered keyword missing", func(t *testing.T) {
		doc := "Bode plot.\n\n" +
			"Parameters\n----------\n" +
			"data : FrequencyResponseData\n    Response to plot.\n"
		report := auditLibrary(t, singleModule([]*manifest.Callable{makeFn(doc)}, nil), nil)

		require.Len(t, report.Findings, 1)
		assert.Equal(t, SeverityError, report.Findings[0].Severity)
		assert.Contains(t, report.Findings[0].Message, "'color' not documented")
	})

	t.Run("skipped keywords", func(t *testing.T) {
		doc := "Bode plot.\n\n" +
			"Parameters\n----------\n" +
			"data : FrequencyResponseData\n    Response to plot.\n"
		config := DefaultConfig()
		config.SkipKeywords = map[string][]string{"bode_plot": {"color", "grid"}}
		report := auditLibrary(t, singleModule([]*manifest.Callable{makeFn(doc)}, nil), config)
		assert.Empty(t, report.Findings)
	})
}

func TestRunDeprecations(t *testing.T) {
	functions := []*manifest.Callable{
		{
			Name:   "phase_plot",
			Module: "control.phaseplot",
			Doc:    "Phase plot.\n\n.. deprecated:: 0.10\n    Use phase_plane_plot instead.\n",
			Source: "def phase_plot(sys):\n" +
				"    warnings.warn('phase_plot is deprecated', FutureWarning)\n",
		},
		{
			Name:   "acker",
			Module: "control.statefbk",
			Doc:    "Pole placement.\n\n.. deprecated:: 0.10\n    Use place_acker instead.\n",
			Source: "def acker(A, B, poles):\n    pass\n",
		},
		{
			Name:   "db2mag",
			Module: "control.ctrlutil",
			Doc:    "db2mag is deprecated; use mag2db conversions instead.\n",
			Source: "def db2mag(db):\n    pass\n",
		},
		{
			Name:   "ss2io",
			Module: "control.iosys",
			Doc:    "Convert legacy systems.\n",
			Source: "def ss2io(sys):\n    pass\n",
		},
	}
	config := DefaultConfig()
	config.Deprecation.RemovedNames = []string{"ss2io"}

	report := auditLibrary(t, singleModule(functions, nil), config)

	dep := findingsForCheck(report, "deprecations")
	require.Len(t, dep, 3)
	assert.Equal(t, "acker", dep[0].Subject)
	assert.Contains(t, dep[0].Message, "does not issue FutureWarning")
	assert.Equal(t, "db2mag", dep[1].Subject)
	assert.Contains(t, dep[1].Message, "non-standard docs/warnings")
	assert.Equal(t, "ss2io", dep[2].Subject)
	assert.Contains(t, dep[2].Message, "legacy name 'ss2io' still present")

	// The informal notice is also flagged by the parameter pass.
	params := findingsForCheck(report, "parameter-docs")
	require.Len(t, params, 1)
	assert.Equal(t, SeverityWarning, params[0].Severity)
	assert.Equal(t, "db2mag", params[0].Subject)

	// Deprecated callables are exempt from parameter validation.
	assert.Equal(t, 1, report.Summary.CallablesChecked)
	assert.Equal(t, 3, report.Summary.Errors)
	assert.Equal(t, 1, report.Summary.Warnings)
}

func classFixture() (*manifest.Library, *Config) {
	lti := &manifest.Class{
		Name:   "LTI",
		Module: "control.lti",
		Doc: "Base class for linear time-invariant systems.\n\n" +
			"Parameters\n----------\n" +
			"ninputs : int\n    Number of inputs.\n" +
			"noutputs : int\n    Number of outputs.\n" +
			"shape : tuple\n    System shape.\n",
		InstanceAttrs: []string{"ninputs", "noutputs", "shape"},
	}
	ss := &manifest.Class{
		Name:   "StateSpace",
		Module: "control.statesp",
		Doc: "State-space model.\n\n" +
			"A system created with the :func:`~control.ss` factory function.\n\n" +
			"Parameters\n----------\n" +
			"A, B : 2D array\n    System matrices.\n" +
			"dt : float\n    Sampling time.\n" +
			"ninputs, noutputs : int\n    System dimensions.\n" +
			"nstates : int\n    Number of states.\n",
		Bases:         []string{"LTI"},
		InstanceAttrs: []string{"nstates", "shape"},
	}
	icsys := &manifest.Class{
		Name:   "InterconnectedSystem",
		Module: "control.nlsys",
		Doc:    "Interconnection of systems, built by the :func:`~control.interconnect` helper.\n",
	}
	ssFn := &manifest.Callable{
		Name:   "ss",
		Module: "control.statesp",
		Doc: "Create a state-space system.\n\n" +
			"Parameters\n----------\n" +
			"A, B : 2D array\n    System matrices.\n" +
			"dt : float\n    Sampling time.\n" +
			"inputs, outputs, name : str\n    Signal labels.\n" +
			"method : str\n    Creation method.\n\n" +
			"Returns\n-------\n" +
			"sys : StateSpace\n    The system.\n",
		Source: "def ss(A, B, dt=0):\n    pass\n",
		Params: []manifest.Param{
			{Name: "A", Kind: manifest.KindPositional},
			{Name: "B", Kind: manifest.KindPositional},
			{Name: "dt", Kind: manifest.KindKeyword},
		},
	}

	lib := singleModule(
		[]*manifest.Callable{ssFn},
		[]*manifest.Class{lti, ss, icsys},
	)
	config := DefaultConfig()
	config.Classes = ClassRegistry{
		StdAttributes:    []string{"ninputs", "noutputs"},
		StdFactoryArgs:   []string{"inputs", "outputs", "name"},
		ParentAttributes: []string{"shape"},
		Primary: []PrimaryClass{{
			Class:      "StateSpace",
			Factory:    "ss",
			Args:       []string{"A", "B", "dt"},
			Attributes: []string{"nstates"},
		}},
		Containers:   []string{"LTI"},
		Intermediate: []IntermediateClass{{Class: "InterconnectedSystem", Factory: "interconnect"}},
		FactoryArgs:  map[string][]string{"ss": {"method"}},
	}
	return lib, config
}

func TestRunClassRegistryClean(t *testing.T) {
	lib, config := classFixture()
	report := auditLibrary(t, lib, config)

	assert.Empty(t, report.Findings)
	assert.False(t, report.Failed())
}

func TestRunClassRegistryViolations(t *testing.T) {
	lib, config := classFixture()

	ss, ok := lib.Class("StateSpace")
	require.True(t, ok)
	ss.Doc += "method : str\n    Creation method.\n"
	ss.InstanceAttrs = []string{"nstates", "ghost"}

	lti, ok := lib.Class("LTI")
	require.True(t, ok)
	lti.InstanceAttrs = append(lti.InstanceAttrs, "poles")

	icsys, ok := lib.Class("InterconnectedSystem")
	require.True(t, ok)
	icsys.Doc += "\nParameters\n----------\nsyslist : list\n    Systems to connect.\n"

	ssFn, ok := lib.Function("ss")
	require.True(t, ok)
	ssFn.Doc += "\nNotes\n-----\nnstates : int\n    State count.\n"

	report := auditLibrary(t, lib, config)

	primary := findingsForCheck(report, "primary-class-docs")
	require.Len(t, primary, 1)
	assert.Contains(t, primary[0].Message, "references factory function parameter 'method'")

	attrs := findingsForCheck(report, "class-attributes")
	require.Len(t, attrs, 1)
	assert.Contains(t, attrs[0].Message, "attribute 'ghost' not documented")

	containers := findingsForCheck(report, "container-class-docs")
	require.Len(t, containers, 1)
	assert.Contains(t, containers[0].Message, "attribute 'poles' not documented")

	intermediate := findingsForCheck(report, "intermediate-class-docs")
	require.Len(t, intermediate, 1)
	assert.Contains(t, intermediate[0].Message, "Parameters section")

	factory := findingsForCheck(report, "factory-function-docs")
	require.Len(t, factory, 1)
	assert.Contains(t, factory[0].Message, "references class attribute 'nstates'")

	for _, f := range report.Findings {
		assert.Equal(t, CategoryClasses, f.Category)
	}
	assert.Equal(t, 5, report.Summary.Errors)
}

func TestRunAttributeInheritedWarning(t *testing.T) {
	lib, config := classFixture()

	lti, ok := lib.Class("LTI")
	require.True(t, ok)
	lti.Doc += "repr_format : str\n    Display format.\n"
	lti.InstanceAttrs = append(lti.InstanceAttrs, "repr_format")

	ss, ok := lib.Class("StateSpace")
	require.True(t, ok)
	ss.InstanceAttrs = append(ss.InstanceAttrs, "repr_format")

	report := auditLibrary(t, lib, config)

	warnings := report.FindingsBySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "class-attributes", warnings[0].Check)
	assert.Contains(t, warnings[0].Message, "only documented in parent class LTI")
	assert.False(t, report.Failed())
}

func TestRunIdempotent(t *testing.T) {
	fn := &manifest.Callable{
		Name:   "place",
		Module: "control.statefbk",
		Doc:    "Pole placement.\n\nParameters\n----------\nsys : LTI\n    Plant.\n",
		Source: "def place(sys, K):\n    pass\n",
		Params: []manifest.Param{
			{Name: "sys", Kind: manifest.KindPositional},
			{Name: "K", Kind: manifest.KindPositional},
		},
	}
	lib := singleModule([]*manifest.Callable{fn}, nil)
	require.NoError(t, lib.Validate())

	log := logrus.New()
	log.SetOutput(io.Discard)
	engine := New(lib, nil, log)

	first := engine.Run()
	second := engine.Run()

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestNewDefaults(t *testing.T) {
	fn := &manifest.Callable{
		Name:   "tf",
		Module: "control.xferfcn",
		Doc:    "Create a transfer function.\n\nParameters\n----------\nnum : array\n    Numerator.\n",
		Source: "def tf(num):\n    pass\n",
		Params: []manifest.Param{{Name: "num", Kind: manifest.KindPositional}},
	}
	lib := singleModule([]*manifest.Callable{fn}, nil)
	require.NoError(t, lib.Validate())

	report := New(lib, nil, nil).Run()
	assert.Equal(t, "control", report.Package)
	assert.Empty(t, report.Findings)

	config := DefaultConfig()
	config.Package = "controls"
	report = New(lib, config, nil).Run()
	assert.Equal(t, "controls", report.Package)
}
