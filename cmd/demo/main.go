package main

import (
	"os"

	"k8s.io/klog/v2"

	"observer-patterns/pkg/cmd/demo"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	cmd := demo.NewCommandDemo(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		klog.ErrorS(err, "Demo failed")
		klog.Flush()
		os.Exit(1)
	}
}
