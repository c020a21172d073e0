package main

import (
	dtmf "github.com/doismellburning/dtmfcodec/src"
)

func main() {
	dtmf.GenMain()
}
