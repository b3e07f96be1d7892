package language

// BuiltinProfiles returns the default language profiles.
func BuiltinProfiles() []*Profile {
	return []*Profile{
		pythonProfile(),
		cProfile(),
		cppProfile(),
		javaProfile(),
		javascriptProfile(),
	}
}

func pythonProfile() *Profile {
	return &Profile{
		ID:        "python",
		Name:      "Python 3",
		Extension: ".py",
		Kind:      KindInterpreted,
		// -u: unbuffered output so lines stream as they are printed
		Run:     []string{"python3", "-u", "{file}"},
		Builtin: true,
		Detect: DetectConfig{
			Check: "python3 --version",
		},
		Install: InstallConfig{
			Commands: map[string]string{
				"macos": "brew install python3",
				"linux": "apt-get install python3",
			},
			DocURL: "https://www.python.org/downloads/",
		},
		InputCalls: []string{"input(", "sys.stdin"},
	}
}

func cProfile() *Profile {
	return &Profile{
		ID:        "c",
		Name:      "C",
		Extension: ".c",
		Kind:      KindNative,
		Compile:   []string{"gcc", "{file}", "-o", "{output}"},
		Run:       []string{"{output}"},
		Builtin:   true,
		Detect: DetectConfig{
			Check: "gcc --version",
		},
		Install: InstallConfig{
			Commands: map[string]string{
				"macos": "xcode-select --install",
				"linux": "apt-get install gcc",
			},
			DocURL: "https://gcc.gnu.org/",
		},
		InputCalls: []string{"scanf", "getchar", "fgets", "gets("},
	}
}

func cppProfile() *Profile {
	return &Profile{
		ID:        "cpp",
		Name:      "C++",
		Extension: ".cpp",
		Kind:      KindNative,
		Compile:   []string{"g++", "{file}", "-o", "{output}"},
		Run:       []string{"{output}"},
		Builtin:   true,
		Detect: DetectConfig{
			Check: "g++ --version",
		},
		Install: InstallConfig{
			Commands: map[string]string{
				"macos": "xcode-select --install",
				"linux": "apt-get install g++",
			},
			DocURL: "https://gcc.gnu.org/",
		},
		InputCalls: []string{"cin >>", "cin>>", "getline", "scanf", "getchar"},
	}
}

func javaProfile() *Profile {
	return &Profile{
		ID:        "java",
		Name:      "Java",
		Extension: ".java",
		Kind:      KindManaged,
		// javac writes <stem>.class next to the source; java resolves the
		// class by unit name in the working directory.
		Compile: []string{"javac", "{file}"},
		Run:     []string{"java", "{unit}"},
		Builtin: true,
		Detect: DetectConfig{
			Check: "javac -version",
		},
		Install: InstallConfig{
			Commands: map[string]string{
				"macos": "brew install openjdk",
				"linux": "apt-get install default-jdk",
			},
			DocURL: "https://adoptium.net/",
		},
		InputCalls: []string{"Scanner", "System.in", "readLine("},
	}
}

func javascriptProfile() *Profile {
	return &Profile{
		ID:        "javascript",
		Name:      "JavaScript (Node.js)",
		Extension: ".js",
		Kind:      KindInterpreted,
		Run:       []string{"node", "{file}"},
		Builtin:   true,
		Detect: DetectConfig{
			Check: "node --version",
		},
		Install: InstallConfig{
			Commands: map[string]string{
				"macos": "brew install node",
				"linux": "apt-get install nodejs",
			},
			DocURL: "https://nodejs.org/",
		},
		InputCalls: []string{"readline(", "prompt(", "process.stdin"},
	}
}
