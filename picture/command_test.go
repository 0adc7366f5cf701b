package picture

import "testing"

func TestCmdTypeString(t *testing.T) {
	tests := []struct {
		typ  CmdType
		want string
	}{
		{CmdSave, "Save"},
		{CmdSaveLayer, "SaveLayer"},
		{CmdClipPath, "ClipPath"},
		{CmdDrawPath, "DrawPath"},
		{CmdDrawTextBlob, "DrawTextBlob"},
		{numCmdTypes, "Unknown"},
		{CmdType(255), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("CmdType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestCmdTypeIsStateUpdate(t *testing.T) {
	state := []CmdType{
		CmdSave, CmdSaveLayer, CmdRestore, CmdTranslate, CmdScale, CmdRotate,
		CmdSkew, CmdConcat, CmdSetMatrix, CmdResetMatrix,
		CmdClipRect, CmdClipRRect, CmdClipPath,
	}
	draw := []CmdType{
		CmdDrawPath, CmdDrawImage, CmdDrawImageRect, CmdDrawImageNine,
		CmdDrawPicture, CmdDrawTextBlob,
	}
	for _, c := range state {
		if !c.IsStateUpdate() {
			t.Errorf("%v.IsStateUpdate() = false, want true", c)
		}
	}
	for _, c := range draw {
		if c.IsStateUpdate() {
			t.Errorf("%v.IsStateUpdate() = true, want false", c)
		}
	}
	if len(state)+len(draw) != int(numCmdTypes) {
		t.Errorf("covered %d command types, want %d", len(state)+len(draw), numCmdTypes)
	}
}

func TestCommandTypes(t *testing.T) {
	cmds := []struct {
		cmd  DrawCmd
		want CmdType
	}{
		{DrawSave{}, CmdSave},
		{DrawSaveLayer{}, CmdSaveLayer},
		{DrawRestore{}, CmdRestore},
		{DrawTranslate{}, CmdTranslate},
		{DrawScale{}, CmdScale},
		{DrawRotate{}, CmdRotate},
		{DrawSkew{}, CmdSkew},
		{DrawConcat{}, CmdConcat},
		{DrawSetMatrix{}, CmdSetMatrix},
		{DrawResetMatrix{}, CmdResetMatrix},
		{DrawClipRect{}, CmdClipRect},
		{DrawClipRRect{}, CmdClipRRect},
		{DrawClipPath{}, CmdClipPath},
		{DrawPath{}, CmdDrawPath},
		{DrawImage{}, CmdDrawImage},
		{DrawImageRect{}, CmdDrawImageRect},
		{DrawImageNine{}, CmdDrawImageNine},
		{DrawPicture{}, CmdDrawPicture},
		{DrawTextBlob{}, CmdDrawTextBlob},
	}
	for _, tt := range cmds {
		if got := tt.cmd.Type(); got != tt.want {
			t.Errorf("%T.Type() = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}
