package cli

const passphraseEnv = "SHELF_PASSPHRASE"

type putOptions struct {
	Raw    bool
	Pretty bool
	File   string
}

type getOptions struct {
	Raw       bool
	MissingOK bool
	Output    string
}

type updateOptions struct {
	File string
}

type rmOptions struct {
	Raw bool
}

type lsOptions struct {
	Raw bool
}

type existsOptions struct {
	Raw bool
}

type transferOptions struct {
	FullyQualified bool
}
